package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veritas-labs/veritas/internal/model"
)

type PostgresAuditRepo struct {
	db *gorm.DB
}

func NewPostgresAuditRepo(ctx context.Context, db *gorm.DB) (*PostgresAuditRepo, error) {
	if err := db.WithContext(ctx).AutoMigrate(&model.AuditRecord{}); err != nil {
		return nil, err
	}
	return &PostgresAuditRepo{db: db}, nil
}

func (r *PostgresAuditRepo) Insert(ctx context.Context, rec *model.AuditRecord) error {
	if rec == nil {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rec).Error
}

func (r *PostgresAuditRepo) List(ctx context.Context, filter model.AuditFilter) ([]*model.AuditRecord, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditRecord{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var records []*model.AuditRecord
	err := q.Order("created_at DESC").Limit(filter.NormalizedLimit()).Find(&records).Error
	return records, err
}
