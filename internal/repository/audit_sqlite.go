package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/veritas-labs/veritas/internal/model"
)

// fixed width so text ordering matches time ordering
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteAuditRepo struct {
	db *sqlx.DB
}

func NewSQLiteAuditRepo(ctx context.Context, db *sqlx.DB) (*SQLiteAuditRepo, error) {
	repo := &SQLiteAuditRepo{db: db}
	if err := repo.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("audit schema: %w", err)
	}
	return repo, nil
}

type sqliteAuditRow struct {
	ID             string  `db:"id"`
	Type           string  `db:"type"`
	Classification string  `db:"classification"`
	Reason         *string `db:"reason"`
	Ext            *string `db:"ext"`
	Confidence     *string `db:"confidence"`
	CreatedAt      string  `db:"created_at"`
}

func (r *SQLiteAuditRepo) Insert(ctx context.Context, rec *model.AuditRecord) error {
	if rec == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auditing (id, type, classification, reason, ext, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, string(rec.Type), string(rec.Classification), rec.Reason, rec.Ext, rec.Confidence,
		rec.CreatedAt.UTC().Format(sqliteTimeLayout))
	return err
}

func (r *SQLiteAuditRepo) List(ctx context.Context, filter model.AuditFilter) ([]*model.AuditRecord, error) {
	limit := filter.NormalizedLimit()

	query := `SELECT id, type, classification, reason, ext, confidence, created_at FROM auditing`
	clauses := []string{}
	args := []interface{}{}

	if filter.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.From != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.From.UTC().Format(sqliteTimeLayout))
	}
	if filter.To != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, filter.To.UTC().Format(sqliteTimeLayout))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	var rows []sqliteAuditRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	records := make([]*model.AuditRecord, 0, len(rows))
	for _, row := range rows {
		createdAt, err := time.Parse(sqliteTimeLayout, row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("audit %s: bad created_at %q: %w", row.ID, row.CreatedAt, err)
		}
		records = append(records, &model.AuditRecord{
			ID:             row.ID,
			Type:           model.RequestType(row.Type),
			Classification: model.Classification(row.Classification),
			Reason:         row.Reason,
			Ext:            row.Ext,
			Confidence:     row.Confidence,
			CreatedAt:      createdAt,
		})
	}
	return records, nil
}

func (r *SQLiteAuditRepo) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS auditing (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			classification TEXT NOT NULL,
			reason TEXT,
			ext TEXT,
			confidence TEXT,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, _ = r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_auditing_type ON auditing(type, created_at DESC)`)
	return nil
}
