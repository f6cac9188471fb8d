package handler

import (
	"net/http"

	"github.com/Ken-Miura/career-change-supporter-sub005/internal/middleware"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

type ratingRequest struct {
	RatingID       int64 `json:"rating_id"`
	ConsultationID int64 `json:"consultation_id"`
	Rating         int   `json:"rating"`
}

// SubmitUserRating lets the consultant rate the requester after the meeting.
func (h *RatingHandler) SubmitUserRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SubmitUserRating(middleware.GetUserID(c), req.RatingID, req.ConsultationID, req.Rating); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// SubmitConsultantRating lets the requester rate the consultant.
func (h *RatingHandler) SubmitConsultantRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SubmitConsultantRating(middleware.GetUserID(c), req.RatingID, req.ConsultationID, req.Rating); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
