package search

import (
	"context"

	"github.com/veritas-labs/veritas/internal/model"
	"github.com/veritas-labs/veritas/internal/pkg/logger"
)

// Engine runs one text search.
type Engine interface {
	Text(ctx context.Context, query string, max int) ([]model.Article, error)
}

// DefaultSourceGroups are queried in order, each restricted to its outlets.
var DefaultSourceGroups = []string{
	"site:reuters.com OR site:bbc.com OR site:apnews.com OR site:theguardian.com",
	"site:cnn.com OR site:nbcnews.com OR site:abcnews.go.com OR site:cbsnews.com",
	"site:timesofindia.indiatimes.com OR site:hindustantimes.com OR site:indianexpress.com",
}

const enoughResults = 3

// MultiSource queries credible outlet groups first and falls back to an
// unrestricted search when none of them return anything.
type MultiSource struct {
	engine     Engine
	groups     []string
	maxResults int
}

func NewMultiSource(engine Engine, maxResults int, groups ...string) *MultiSource {
	if len(groups) == 0 {
		groups = DefaultSourceGroups
	}
	return &MultiSource{engine: engine, groups: groups, maxResults: maxResults}
}

// Search never fails: engine errors are logged and skipped.
func (m *MultiSource) Search(ctx context.Context, query string) []model.Article {
	var results []model.Article
	perGroup := m.maxResults / len(m.groups)

	for _, group := range m.groups {
		found, err := m.engine.Text(ctx, query+" "+group, perGroup)
		if err != nil {
			logger.Debug("source group search failed", "group", group, "error", err)
		} else {
			results = append(results, found...)
		}
		if len(results) >= enoughResults {
			break
		}
	}

	if len(results) == 0 {
		found, err := m.engine.Text(ctx, query, m.maxResults)
		if err != nil {
			logger.Warn("web search failed", "error", err)
		} else {
			results = found
		}
	}

	if len(results) > m.maxResults {
		results = results[:m.maxResults]
	}
	return results
}
