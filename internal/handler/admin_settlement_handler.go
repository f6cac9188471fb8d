package handler

import (
	"net/http"

	"github.com/Ken-Miura/career-change-supporter-sub005/internal/middleware"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminSettlementHandler exposes the state-machine transitions the back
// office drives: stop/resume, transfer confirmation and the four terminal
// outcomes.
type AdminSettlementHandler struct {
	svc *service.SettlementService
}

func NewAdminSettlementHandler(svc *service.SettlementService) *AdminSettlementHandler {
	return &AdminSettlementHandler{svc: svc}
}

type consultationIDRequest struct {
	ConsultationID int64 `json:"consultation_id"`
}

func (h *AdminSettlementHandler) ResumeSettlement(c *gin.Context) {
	var req struct {
		StoppedSettlementID int64 `json:"stopped_settlement_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ResumeSettlement(req.StoppedSettlementID); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *AdminSettlementHandler) StopSettlement(c *gin.Context) {
	var req consultationIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.StopSettlement(req.ConsultationID); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *AdminSettlementHandler) ConfirmPayment(c *gin.Context) {
	var req struct {
		ConsultationID int64  `json:"consultation_id"`
		SenderName     string `json:"sender_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ConfirmPayment(req.ConsultationID, req.SenderName, middleware.GetEmail(c)); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *AdminSettlementHandler) CompleteWithdrawal(c *gin.Context) {
	var req consultationIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.CompleteWithdrawal(req.ConsultationID, middleware.GetEmail(c)); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *AdminSettlementHandler) LeaveAwaitingWithdrawal(c *gin.Context) {
	var req consultationIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.LeaveAwaitingWithdrawal(req.ConsultationID, middleware.GetEmail(c)); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *AdminSettlementHandler) NeglectPayment(c *gin.Context) {
	var req consultationIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.NeglectPayment(req.ConsultationID, middleware.GetEmail(c)); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *AdminSettlementHandler) RefundFromAwaitingWithdrawal(c *gin.Context) {
	var req struct {
		ConsultationID int64  `json:"consultation_id"`
		Reason         string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.RefundFromAwaitingWithdrawal(c.Request.Context(), req.ConsultationID, req.Reason, middleware.GetEmail(c)); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
