package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veritas-labs/veritas/internal/model"
	"github.com/veritas-labs/veritas/internal/pkg/apperrors"
	"github.com/veritas-labs/veritas/internal/pkg/logger"
)

const uploadField = "file"

var (
	imageExtensions = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {}}
	videoExtensions = map[string]struct{}{".mp4": {}, ".mov": {}, ".webm": {}}
)

type MediaPredictor interface {
	PredictImage(ctx context.Context, path string) (*model.ImagePrediction, error)
	PredictVideo(ctx context.Context, path string) (*model.VideoPrediction, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, rec *model.AuditRecord) error
}

type MediaHandler struct {
	predictor MediaPredictor
	audit     AuditRecorder
	uploadDir string
	maxBytes  int64
}

func NewMediaHandler(predictor MediaPredictor, audit AuditRecorder, uploadDir string, maxUploadMB int64) *MediaHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 100
	}
	return &MediaHandler{
		predictor: predictor,
		audit:     audit,
		uploadDir: uploadDir,
		maxBytes:  maxUploadMB << 20,
	}
}

func (h *MediaHandler) PredictImage(c *gin.Context) {
	upload, ok := h.saveUpload(c, imageExtensions)
	if !ok {
		return
	}
	defer upload.remove()

	pred, err := h.predictor.PredictImage(c.Request.Context(), upload.path)
	if err != nil {
		_ = c.Error(apperrors.NewInference(err))
		return
	}
	if !h.record(c, upload, model.RequestImage, pred.Prediction, pred.Confidence) {
		return
	}
	c.JSON(http.StatusOK, pred)
}

func (h *MediaHandler) PredictVideo(c *gin.Context) {
	upload, ok := h.saveUpload(c, videoExtensions)
	if !ok {
		return
	}
	defer upload.remove()

	pred, err := h.predictor.PredictVideo(c.Request.Context(), upload.path)
	if err != nil {
		_ = c.Error(apperrors.NewInference(err))
		return
	}
	if !h.record(c, upload, model.RequestVideo, pred.Prediction, pred.Confidence) {
		return
	}
	c.JSON(http.StatusOK, pred)
}

type upload struct {
	id   string
	ext  string
	path string
}

func (u upload) remove() {
	if err := os.Remove(u.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove upload", "path", u.path, "error", err)
	}
}

// saveUpload validates the multipart file and writes it to
// <uploadDir>/<id><ext>. On failure the error is already attached to c.
func (h *MediaHandler) saveUpload(c *gin.Context, allowed map[string]struct{}) (upload, bool) {
	if c.Request.ContentLength > h.maxBytes {
		_ = c.Error(apperrors.New(apperrors.ErrTooLarge, "upload exceeds size limit", nil))
		return upload{}, false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	fh, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(apperrors.New(apperrors.ErrTooLarge, "upload exceeds size limit", err))
			return upload{}, false
		}
		_ = c.Error(apperrors.NewInvalidRequest(`multipart field "file" is required`))
		return upload{}, false
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowed[ext]; !ok {
		_ = c.Error(apperrors.NewUnsupportedMedia("unsupported file extension " + quoteExt(ext)))
		return upload{}, false
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	u := upload{id: id, ext: ext, path: filepath.Join(h.uploadDir, id+ext)}
	if err := c.SaveUploadedFile(fh, u.path); err != nil {
		u.remove()
		_ = c.Error(apperrors.New(apperrors.ErrInternal, "failed to store upload", err))
		return upload{}, false
	}
	return u, true
}

func (h *MediaHandler) record(c *gin.Context, u upload, kind model.RequestType, class model.Classification, confidence string) bool {
	err := h.audit.Record(c.Request.Context(), &model.AuditRecord{
		ID:             u.id,
		Type:           kind,
		Classification: class,
		Ext:            model.StringPtr(u.ext),
		Confidence:     model.StringPtr(confidence),
	})
	if err != nil {
		_ = c.Error(apperrors.New(apperrors.ErrInternal, "failed to record audit entry", err))
		return false
	}
	return true
}

func quoteExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return `"` + ext + `"`
}
