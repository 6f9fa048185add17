package model

import (
	"time"
)

// RequestType identifies which endpoint produced an audit row.
type RequestType string

const (
	RequestImage RequestType = "image"
	RequestVideo RequestType = "video"
	RequestNews  RequestType = "news"
)

// AuditRecord is one append-only row of the "auditing" table. Rows are
// written once per request and never updated.
type AuditRecord struct {
	ID             string         `json:"id" db:"id" gorm:"primaryKey;size:32"`
	Type           RequestType    `json:"type" db:"type" gorm:"size:16;index"`
	Classification Classification `json:"classification" db:"classification" gorm:"size:16"`
	Reason         *string        `json:"reason,omitempty" db:"reason" gorm:"type:text"`
	Ext            *string        `json:"ext,omitempty" db:"ext" gorm:"size:16"`
	Confidence     *string        `json:"confidence,omitempty" db:"confidence" gorm:"size:16"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at" gorm:"index"`
}

func (AuditRecord) TableName() string {
	return "auditing"
}

// AuditFilter narrows audit listings. Zero values mean "no filter".
type AuditFilter struct {
	Type  RequestType
	Limit int
	From  *time.Time
	To    *time.Time
}

// Match reports whether rec satisfies the filter's type and time bounds.
func (f AuditFilter) Match(rec *AuditRecord) bool {
	if rec == nil {
		return false
	}
	if f.Type != "" && rec.Type != f.Type {
		return false
	}
	if f.From != nil && rec.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && rec.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// NormalizedLimit clamps Limit to (0, 1000], defaulting to 100.
func (f AuditFilter) NormalizedLimit() int {
	if f.Limit <= 0 || f.Limit > 1000 {
		return 100
	}
	return f.Limit
}

// StringPtr returns nil for empty strings so optional columns stay NULL.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
