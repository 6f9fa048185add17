package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veritas-labs/veritas/internal/pkg/apperrors"
)

func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello"})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "veritas"})
}

func NotFound(c *gin.Context) {
	_ = c.Error(apperrors.NewNotFound("route not found"))
}
