package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/veritas-labs/veritas/internal/factcheck"
	"github.com/veritas-labs/veritas/internal/model"
	"github.com/veritas-labs/veritas/internal/pkg/logger"
	"github.com/veritas-labs/veritas/internal/pkg/metrics"
)

const (
	minClaimChars   = 10
	claimTooShort   = "Claim too short to verify (minimum 10 characters)"
	defaultTrustedK = 2
)

type NewsSearcher interface {
	Search(ctx context.Context, query string) []model.Article
}

type FactRetriever interface {
	Similar(ctx context.Context, text string, k int) ([]string, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FactCheckService classifies a news claim from live search results,
// trusted facts and a language model verdict.
type FactCheckService struct {
	search   NewsSearcher
	facts    FactRetriever
	llm      Generator
	cache    VerdictCache
	trustedK int
	cacheTTL time.Duration
}

type FactCheckOption func(*FactCheckService)

// WithVerdictCache enables caching of non-ERROR verdicts for ttl.
func WithVerdictCache(cache VerdictCache, ttl time.Duration) FactCheckOption {
	return func(s *FactCheckService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithTrustedK(k int) FactCheckOption {
	return func(s *FactCheckService) {
		if k > 0 {
			s.trustedK = k
		}
	}
}

func NewFactCheckService(search NewsSearcher, facts FactRetriever, llm Generator, opts ...FactCheckOption) *FactCheckService {
	s := &FactCheckService{
		search:   search,
		facts:    facts,
		llm:      llm,
		trustedK: defaultTrustedK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify never returns an error; failures surface as an ERROR classification.
func (s *FactCheckService) Verify(ctx context.Context, text string) model.InformationResponse {
	claim := strings.TrimSpace(text)
	if utf8.RuneCountInString(claim) < minClaimChars {
		return s.count(model.InformationResponse{Classification: model.Error, Reason: claimTooShort})
	}

	key := ClaimKey(claim)
	if cached, ok := s.lookup(ctx, key); ok {
		return s.count(*cached)
	}

	start := time.Now()
	resp := s.classify(ctx, claim)
	metrics.InferenceSeconds.WithLabelValues(string(model.RequestNews)).Observe(time.Since(start).Seconds())

	if s.cache != nil && resp.Classification != model.Error {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			logger.LogError(ctx, err, "failed to cache verdict")
		}
	}
	return s.count(resp)
}

func (s *FactCheckService) classify(ctx context.Context, claim string) model.InformationResponse {
	articles := s.search.Search(ctx, factcheck.ExtractKeywords(claim))
	webContext := factcheck.WebContext(articles)

	facts, err := s.facts.Similar(ctx, claim, s.trustedK)
	if err != nil {
		logger.LogError(ctx, err, "trusted fact retrieval failed")
		return factcheck.ErrorResponse(err)
	}

	raw, err := s.llm.Generate(ctx, factcheck.BuildPrompt(webContext, factcheck.TrustedContext(facts), claim))
	if err != nil {
		logger.LogError(ctx, err, "verdict generation failed")
		return factcheck.ErrorResponse(err)
	}

	resp := factcheck.ParseVerdict(raw)
	logger.Debug("claim classified", "classification", resp.Classification, "articles", len(articles))
	return resp
}

func (s *FactCheckService) lookup(ctx context.Context, key string) (*model.InformationResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.LogError(ctx, err, "verdict cache lookup failed")
		return nil, false
	}
	if !ok {
		metrics.ClaimCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.ClaimCache.WithLabelValues("hit").Inc()
	return cached, true
}

func (s *FactCheckService) count(resp model.InformationResponse) model.InformationResponse {
	metrics.PredictionsTotal.WithLabelValues(string(model.RequestNews), string(resp.Classification)).Inc()
	return resp
}
