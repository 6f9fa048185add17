package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veritas-labs/veritas/internal/model"
	"github.com/veritas-labs/veritas/internal/pkg/apperrors"
)

type ClaimVerifier interface {
	Verify(ctx context.Context, text string) model.InformationResponse
}

type ClaimHandler struct {
	verifier ClaimVerifier
	audit    AuditRecorder
}

func NewClaimHandler(verifier ClaimVerifier, audit AuditRecorder) *ClaimHandler {
	return &ClaimHandler{verifier: verifier, audit: audit}
}

// PredictNews always answers 200 once the body parses; verification
// failures come back as an ERROR classification.
func (h *ClaimHandler) PredictNews(c *gin.Context) {
	var req model.InformationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewInvalidRequest("invalid JSON body: " + err.Error()))
		return
	}

	resp := h.verifier.Verify(c.Request.Context(), req.Text)

	err := h.audit.Record(c.Request.Context(), &model.AuditRecord{
		ID:             strings.ReplaceAll(uuid.NewString(), "-", ""),
		Type:           model.RequestNews,
		Classification: resp.Classification,
		Reason:         model.StringPtr(resp.Reason),
	})
	if err != nil {
		_ = c.Error(apperrors.New(apperrors.ErrInternal, "failed to record audit entry", err))
		return
	}
	c.JSON(http.StatusOK, resp)
}
