package http

import (
	"errors"
	"net/http"

	"mediastore/domain/dto"
	"mediastore/interfaces/middleware"
	"mediastore/usecase"

	"github.com/gin-gonic/gin"
)

type IWaitlistHandler interface {
	Subscribe(c *gin.Context)
	Stats(c *gin.Context)
}

type WaitlistHandler struct {
	waitlist usecase.IWaitlistUsecase
}

func NewWaitlistHandler(waitlist usecase.IWaitlistUsecase) IWaitlistHandler {
	return &WaitlistHandler{waitlist: waitlist}
}

func (h *WaitlistHandler) Subscribe(c *gin.Context) {
	var req dto.WaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	err := h.waitlist.Register(c.Request.Context(), middleware.TenantID(c), c.ClientIP(), req)
	if errors.Is(err, usecase.ErrCaptchaInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": usecase.ErrCaptchaInvalid.Error()})
		return
	}
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Subscribed"})
}

func (h *WaitlistHandler) Stats(c *gin.Context) {
	stats, err := h.waitlist.Stats(c.Request.Context())
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
