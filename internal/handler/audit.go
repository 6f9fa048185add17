package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veritas-labs/veritas/internal/model"
	"github.com/veritas-labs/veritas/internal/pkg/apperrors"
)

type AuditLister interface {
	List(ctx context.Context, filter model.AuditFilter) ([]*model.AuditRecord, error)
}

type AuditHandler struct {
	svc AuditLister
}

func NewAuditHandler(svc AuditLister) *AuditHandler {
	return &AuditHandler{svc: svc}
}

func (h *AuditHandler) List(c *gin.Context) {
	var filter model.AuditFilter

	switch kind := model.RequestType(c.Query("type")); kind {
	case "", model.RequestImage, model.RequestVideo, model.RequestNews:
		filter.Type = kind
	default:
		_ = c.Error(apperrors.NewInvalidRequest("type must be one of image, video, news"))
		return
	}

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			_ = c.Error(apperrors.NewInvalidRequest("limit must be a non-negative integer"))
			return
		}
		filter.Limit = parsed
	}
	if raw := c.Query("from"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			_ = c.Error(apperrors.NewInvalidRequest(err.Error()))
			return
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			_ = c.Error(apperrors.NewInvalidRequest(err.Error()))
			return
		}
		filter.To = &t
	}

	records, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(apperrors.New(apperrors.ErrInternal, err.Error(), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid time format %q, use RFC3339 or unix seconds", raw)
}
