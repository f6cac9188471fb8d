package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Ken-Miura/career-change-supporter-sub005/internal/errcode"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/middleware"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/service"

	"github.com/gin-gonic/gin"
)

type ConsultationHandler struct {
	svc *service.ConsultationService
}

func NewConsultationHandler(svc *service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{svc: svc}
}

// Request creates a consultation request with an authorization hold on the
// requester's card.
func (h *ConsultationHandler) Request(c *gin.Context) {
	var req struct {
		ConsultantID            int64  `json:"consultant_id" binding:"required"`
		FeePerHourInYen         int64  `json:"fee_per_hour_in_yen" binding:"required"`
		CardToken               string `json:"card_token" binding:"required"`
		FirstCandidateDateTime  string `json:"first_candidate_date_time" binding:"required"`
		SecondCandidateDateTime string `json:"second_candidate_date_time" binding:"required"`
		ThirdCandidateDateTime  string `json:"third_candidate_date_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var candidates [3]time.Time
	for i, raw := range []string{req.FirstCandidateDateTime, req.SecondCandidateDateTime, req.ThirdCandidateDateTime} {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			renderError(c, errcode.InvalidCandidateDateTime)
			return
		}
		candidates[i] = t
	}
	chargeID, err := h.svc.RequestConsultation(
		c.Request.Context(),
		middleware.GetUserID(c),
		req.ConsultantID,
		req.FeePerHourInYen,
		req.CardToken,
		candidates,
	)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"charge_id": chargeID})
}

// Accept consumes the consultation request: the consultant picks one of the
// three candidate times.
func (h *ConsultationHandler) Accept(c *gin.Context) {
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || requestID <= 0 {
		renderError(c, errcode.ConsultationReqIdIsNotPositive)
		return
	}
	var req struct {
		PickedCandidate int `json:"picked_candidate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	consultationID, err := h.svc.AcceptRequest(middleware.GetUserID(c), requestID, req.PickedCandidate)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultation_id": consultationID})
}
