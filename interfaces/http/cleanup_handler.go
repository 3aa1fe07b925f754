package http

import (
	"net/http"

	"mediastore/usecase"

	"github.com/gin-gonic/gin"
)

type ICleanupHandler interface {
	Run(c *gin.Context)
}

type CleanupHandler struct {
	cleanup usecase.ICleanupUsecase
}

func NewCleanupHandler(cleanup usecase.ICleanupUsecase) ICleanupHandler {
	return &CleanupHandler{cleanup: cleanup}
}

// Run handles POST /api/internal/cleanup
func (h *CleanupHandler) Run(c *gin.Context) {
	report, err := h.cleanup.Sweep(c.Request.Context())
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
