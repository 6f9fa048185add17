package service

import (
	"context"
	"sync"
	"time"

	"github.com/veritas-labs/veritas/internal/model"
	"github.com/veritas-labs/veritas/internal/pkg/logger"
)

const auditBufferSize = 1000

type AuditRepo interface {
	Insert(ctx context.Context, rec *model.AuditRecord) error
	List(ctx context.Context, filter model.AuditFilter) ([]*model.AuditRecord, error)
}

// AuditService writes one row per prediction. The in-memory buffer keeps
// the most recent rows readable when the repository is unavailable.
type AuditService struct {
	buffer *auditBuffer
	repo   AuditRepo
	now    func() time.Time
}

func NewAuditService(repo AuditRepo) *AuditService {
	return &AuditService{
		buffer: newAuditBuffer(auditBufferSize),
		repo:   repo,
		now:    time.Now,
	}
}

// Record stamps rec and stores it. The row is buffered even when the
// repository write fails.
func (s *AuditService) Record(ctx context.Context, rec *model.AuditRecord) error {
	if rec == nil {
		return nil
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	s.buffer.Add(rec)
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		logger.LogError(ctx, err, "failed to write audit record", "id", rec.ID, "type", rec.Type)
		return err
	}
	return nil
}

func (s *AuditService) List(ctx context.Context, filter model.AuditFilter) ([]*model.AuditRecord, error) {
	if s.repo != nil {
		records, err := s.repo.List(ctx, filter)
		if err == nil {
			return records, nil
		}
		logger.LogError(ctx, err, "audit repository list failed, serving buffer")
	}
	return s.buffer.List(filter), nil
}

type auditBuffer struct {
	mu        sync.Mutex
	maxSize   int
	records   []*model.AuditRecord
	nextIndex int
}

func newAuditBuffer(maxSize int) *auditBuffer {
	if maxSize <= 0 {
		maxSize = auditBufferSize
	}
	return &auditBuffer{
		maxSize: maxSize,
		records: make([]*model.AuditRecord, 0, maxSize),
	}
}

func (b *auditBuffer) Add(rec *model.AuditRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) < b.maxSize {
		b.records = append(b.records, rec)
		return
	}
	b.records[b.nextIndex] = rec
	b.nextIndex = (b.nextIndex + 1) % b.maxSize
}

// List walks newest first.
func (b *auditBuffer) List(filter model.AuditFilter) []*model.AuditRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	limit := filter.NormalizedLimit()
	results := make([]*model.AuditRecord, 0, min(limit, len(b.records)))
	total := len(b.records)
	for i := 0; i < total; i++ {
		idx := (b.nextIndex + total - 1 - i) % total
		rec := b.records[idx]
		if !filter.Match(rec) {
			continue
		}
		results = append(results, rec)
		if len(results) >= limit {
			break
		}
	}
	return results
}
