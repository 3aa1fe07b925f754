package http

import (
	"errors"
	"net/http"

	"mediastore/domain/dto"
	"mediastore/infrastructure/logger"
	"mediastore/interfaces/middleware"
	"mediastore/usecase"

	"github.com/gin-gonic/gin"
)

// EntryStream serves entry status events to the connected owner.
type EntryStream interface {
	Serve(c *gin.Context, tenantID, userID string)
}

type IEntryHandler interface {
	CreateEntry(c *gin.Context)
	UpdateStatus(c *gin.Context)
	InitUpload(c *gin.Context)
	FinalizeUpload(c *gin.Context)
	Events(c *gin.Context)
}

type EntryHandler struct {
	entries usecase.IEntryUsecase
	stream  EntryStream
}

func NewEntryHandler(entries usecase.IEntryUsecase, stream EntryStream) IEntryHandler {
	return &EntryHandler{entries: entries, stream: stream}
}

var forbidden = gin.H{"error": "Forbidden"}

func (h *EntryHandler) CreateEntry(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	entry, err := h.entries.CreateEntry(c.Request.Context(), middleware.TenantID(c), p, req)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// UpdateStatus handles PATCH /api/entries/:id/status. Missing, foreign and
// illegal transitions all answer 403.
func (h *EntryHandler) UpdateStatus(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ok, err := h.entries.UpdateStatus(c.Request.Context(), middleware.TenantID(c), p.ID, c.Param("id"), req.Status)
	switch {
	case errors.Is(err, usecase.ErrInvalidTransition):
		c.JSON(http.StatusForbidden, forbidden)
	case err != nil:
		writeUsecaseError(c, err)
	case !ok:
		c.JSON(http.StatusForbidden, forbidden)
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *EntryHandler) InitUpload(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	var req dto.InitUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := h.entries.InitiateUpload(c.Request.Context(), middleware.TenantID(c), p.ID, req)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	if res == nil {
		c.JSON(http.StatusForbidden, forbidden)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *EntryHandler) FinalizeUpload(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	var req dto.FinalizeUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := h.entries.FinalizeUpload(c.Request.Context(), middleware.TenantID(c), p.ID, req)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	if res == nil {
		c.JSON(http.StatusForbidden, forbidden)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Events streams status changes of the caller's own entries over SSE.
func (h *EntryHandler) Events(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	h.stream.Serve(c, middleware.TenantID(c), p.ID)
}

// writeUsecaseError maps caller errors to 400 and everything else to 500
// without leaking details.
func writeUsecaseError(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.GetLogger().
		WithField("path", c.FullPath()).
		WithField("error", err.Error()).
		Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
