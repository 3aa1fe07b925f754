package http

import (
	"net/http"
	"strconv"

	"mediastore/interfaces/middleware"
	"mediastore/usecase"

	"github.com/gin-gonic/gin"
)

type IPublicEntryHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	ListByAuthor(c *gin.Context)
}

type PublicEntryHandler struct {
	entries usecase.IPublicEntryUsecase
}

func NewPublicEntryHandler(entries usecase.IPublicEntryUsecase) IPublicEntryHandler {
	return &PublicEntryHandler{entries: entries}
}

func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(usecase.DefaultPageSize)))
	return page, size
}

// List handles GET /public/entries?page=&size=
func (h *PublicEntryHandler) List(c *gin.Context) {
	page, size := pageQuery(c)
	res, err := h.entries.List(c.Request.Context(), middleware.TenantID(c), page, size)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PublicEntryHandler) Get(c *gin.Context) {
	res, err := h.entries.Get(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	if res == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListByAuthor handles GET /public/users/:username/entries?type=video&page=&size=
func (h *PublicEntryHandler) ListByAuthor(c *gin.Context) {
	page, size := pageQuery(c)
	res, err := h.entries.ListByAuthor(c.Request.Context(), middleware.TenantID(c), c.Param("username"), c.DefaultQuery("type", "video"), page, size)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
