// Package factstore keeps a small vector collection of trusted facts that
// are retrieved by similarity to a claim.
package factstore

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"

	"github.com/veritas-labs/veritas/internal/model"
	"github.com/veritas-labs/veritas/internal/pkg/logger"
)

const collectionName = "trusted_facts"

// BaselineFacts seed an empty collection.
var BaselineFacts = []string{
	"Private credit markets have seen high-profile collapses like First Brands and Tricolor in 2025.",
	"September is historically a weak month for equities; the S&P 500 averages -1.1% since 1950.",
	"Tariffs on Chinese goods raise U.S. manufacturing costs by 2-5% according to the Federal Reserve.",
}

// EmbedFunc turns text into a vector. Vectors need not be normalized.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// Open loads the collection from dir, or keeps it in memory when dir is empty.
func Open(dir string, embed EmbedFunc) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if dir == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("open vector store %s: %w", dir, err)
		}
	}
	col, err := db.GetOrCreateCollection(collectionName, nil, chromem.EmbeddingFunc(embed))
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", collectionName, err)
	}
	return &Store{db: db, collection: col}, nil
}

// BaselineSeed returns BaselineFacts as ids fact_0.. with verified metadata.
func BaselineSeed() []model.Fact {
	facts := make([]model.Fact, len(BaselineFacts))
	for i, content := range BaselineFacts {
		facts[i] = model.Fact{
			ID:       fmt.Sprintf("fact_%d", i),
			Content:  content,
			Metadata: map[string]string{"source": "verified", "type": "baseline"},
		}
	}
	return facts
}

// SeedIfEmpty adds facts only when the collection holds nothing yet.
func (s *Store) SeedIfEmpty(ctx context.Context, facts []model.Fact) error {
	if s.collection.Count() > 0 {
		return nil
	}
	if err := s.Add(ctx, facts); err != nil {
		return err
	}
	logger.Info("seeded trusted facts", "count", len(facts))
	return nil
}

func (s *Store) Add(ctx context.Context, facts []model.Fact) error {
	docs := make([]chromem.Document, len(facts))
	for i, f := range facts {
		docs[i] = chromem.Document{ID: f.ID, Content: f.Content, Metadata: f.Metadata}
	}
	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("add facts: %w", err)
	}
	return nil
}

func (s *Store) Count() int {
	return s.collection.Count()
}

// Similar returns the contents of up to k facts closest to text.
func (s *Store) Similar(ctx context.Context, text string, k int) ([]string, error) {
	n := min(k, s.collection.Count())
	if n <= 0 {
		return nil, nil
	}
	results, err := s.collection.Query(ctx, text, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Content
	}
	return out, nil
}
