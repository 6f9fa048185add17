package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClassification(t *testing.T) {
	c, ok := ParseClassification(" real ")
	assert.True(t, ok)
	assert.Equal(t, Real, c)

	c, ok = ParseClassification("Unverified")
	assert.True(t, ok)
	assert.Equal(t, Unverified, c)

	_, ok = ParseClassification("ERROR")
	assert.False(t, ok, "ERROR is never a model verdict")

	c, ok = ParseClassification("MOSTLY TRUE")
	assert.False(t, ok)
	assert.False(t, c.Valid())
}

func TestAuditFilterMatch(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)
	rec := &AuditRecord{ID: "a", Type: RequestImage, CreatedAt: now}

	assert.True(t, AuditFilter{}.Match(rec))
	assert.True(t, AuditFilter{Type: RequestImage, From: &earlier}.Match(rec))
	assert.False(t, AuditFilter{Type: RequestNews}.Match(rec))
	assert.False(t, AuditFilter{To: &earlier}.Match(rec))
	assert.False(t, AuditFilter{}.Match(nil))
}

func TestNormalizedLimit(t *testing.T) {
	assert.Equal(t, 100, AuditFilter{}.NormalizedLimit())
	assert.Equal(t, 100, AuditFilter{Limit: 5000}.NormalizedLimit())
	assert.Equal(t, 25, AuditFilter{Limit: 25}.NormalizedLimit())
}

func TestBoxArea(t *testing.T) {
	assert.Equal(t, 200.0, Box{X1: 0, Y1: 0, X2: 10, Y2: 20}.Area())
	assert.Equal(t, 0.0, Box{X1: 10, Y1: 0, X2: 5, Y2: 20}.Area())
}
