package http

import (
	"net/http"

	"mediastore/domain/dto"
	"mediastore/interfaces/middleware"
	"mediastore/usecase"

	"github.com/gin-gonic/gin"
)

type IEntitlementHandler interface {
	Check(c *gin.Context)
	Grant(c *gin.Context)
}

type EntitlementHandler struct {
	entitlements usecase.IEntitlementUsecase
}

func NewEntitlementHandler(entitlements usecase.IEntitlementUsecase) IEntitlementHandler {
	return &EntitlementHandler{entitlements: entitlements}
}

// Check handles GET /api/media/entitlements/:entryId. Every denial looks the
// same to the caller.
func (h *EntitlementHandler) Check(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	res, err := h.entitlements.CheckAccess(c.Request.Context(), middleware.TenantID(c), p.ID, c.Param("entryId"))
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	if res == nil {
		c.JSON(http.StatusForbidden, forbidden)
		return
	}
	c.Header("Cache-Control", "private, no-store")
	c.JSON(http.StatusOK, res)
}

// Grant handles POST /api/internal/entitlements for the purchase flow.
func (h *EntitlementHandler) Grant(c *gin.Context) {
	var req dto.GrantEntitlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ent, err := h.entitlements.Grant(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	if ent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	c.JSON(http.StatusCreated, ent)
}
