package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/errcode"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminQueryHandler is the read-only operational surface: paginated lists and
// per-consultation point lookups over every settlement state. Lookups where
// "already handled elsewhere" is a normal outcome return 200 with a null body
// instead of 404.
type AdminQueryHandler struct {
	cfg            config.SettlementConfig
	payoutRepo     *repository.PayoutRepository
	settlementRepo *repository.SettlementRepository
	receiptRepo    *repository.ReceiptRepository
	ratingRepo     *repository.RatingRepository
}

func NewAdminQueryHandler(
	cfg config.SettlementConfig,
	payoutRepo *repository.PayoutRepository,
	settlementRepo *repository.SettlementRepository,
	receiptRepo *repository.ReceiptRepository,
	ratingRepo *repository.RatingRepository,
) *AdminQueryHandler {
	return &AdminQueryHandler{
		cfg:            cfg,
		payoutRepo:     payoutRepo,
		settlementRepo: settlementRepo,
		receiptRepo:    receiptRepo,
		ratingRepo:     ratingRepo,
	}
}

// ListAwaitingPayments pages over captured-but-unarranged payouts. per-page is
// pinned to the configured page size so clients cannot dump the table.
func (h *AdminQueryHandler) ListAwaitingPayments(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		renderError(c, errcode.IllegalPageSize)
		return
	}
	perPage, err := strconv.Atoi(c.Query("per-page"))
	if err != nil || perPage != h.cfg.ListPageSize {
		renderError(c, errcode.IllegalPageSize)
		return
	}
	rows, err := h.payoutRepo.ListAwaitingPayments(page, perPage)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"awaiting_payments": rows})
}

// optional wraps a point lookup: absent rows are not an error.
func optional[T any](c *gin.Context, key string, rec *T, err error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{key: nil})
			return
		}
		renderError(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{key: nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{key: rec})
}

func (h *AdminQueryHandler) GetAwaitingPayment(c *gin.Context) {
	id, ok := queryID(c, "consultation-id", errcode.ConsultationIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.payoutRepo.FindAwaitingPayment(id)
	optional(c, "awaiting_payment", rec, err)
}

func (h *AdminQueryHandler) GetAwaitingWithdrawal(c *gin.Context) {
	id, ok := queryID(c, "consultation-id", errcode.ConsultationIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.payoutRepo.FindAwaitingWithdrawal(id)
	optional(c, "awaiting_withdrawal", rec, err)
}

func (h *AdminQueryHandler) GetLeftAwaitingWithdrawal(c *gin.Context) {
	id, ok := queryID(c, "consultation-id", errcode.ConsultationIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.payoutRepo.FindLeftAwaitingWithdrawal(id)
	optional(c, "left_awaiting_withdrawal", rec, err)
}

func (h *AdminQueryHandler) GetNeglectedPayment(c *gin.Context) {
	id, ok := queryID(c, "consultation-id", errcode.ConsultationIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.payoutRepo.FindNeglectedPayment(id)
	optional(c, "neglected_payment", rec, err)
}

func (h *AdminQueryHandler) GetRefundedPayment(c *gin.Context) {
	id, ok := queryID(c, "consultation-id", errcode.ConsultationIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.payoutRepo.FindRefundedPayment(id)
	optional(c, "refunded_payment", rec, err)
}

// GetSettlement reports the capture-pending state. More than one settlement
// row per consultation violates the model and surfaces as the opaque 500.
func (h *AdminQueryHandler) GetSettlement(c *gin.Context) {
	id, ok := queryID(c, "consultation-id", errcode.ConsultationIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.settlementRepo.FindByConsultationID(id)
	optional(c, "settlement", rec, err)
}

func (h *AdminQueryHandler) GetReceipt(c *gin.Context) {
	id, ok := queryID(c, "consultation-id", errcode.ConsultationIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.receiptRepo.FindReceiptByConsultationID(id)
	optional(c, "receipt", rec, err)
}

func (h *AdminQueryHandler) GetRefund(c *gin.Context) {
	id, ok := queryID(c, "consultation-id", errcode.ConsultationIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.receiptRepo.FindRefundByConsultationID(id)
	optional(c, "refund", rec, err)
}

// GetReceiptOfConsultation returns the consultant's latest payout record with
// the bank snapshot.
func (h *AdminQueryHandler) GetReceiptOfConsultation(c *gin.Context) {
	id, ok := queryID(c, "user-account-id", errcode.UserAccountIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.payoutRepo.FindLatestReceiptOfConsultationByConsultant(id)
	optional(c, "receipt_of_consultation", rec, err)
}

func (h *AdminQueryHandler) GetUserRating(c *gin.Context) {
	id, ok := queryID(c, "consultation-id", errcode.ConsultationIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.ratingRepo.FindUserRatingByConsultationID(id)
	optional(c, "user_rating", rec, err)
}

func (h *AdminQueryHandler) GetConsultantRating(c *gin.Context) {
	id, ok := queryID(c, "consultation-id", errcode.ConsultationIdIsNotPositive)
	if !ok {
		return
	}
	rec, err := h.ratingRepo.FindConsultantRatingByConsultationID(id)
	optional(c, "consultant_rating", rec, err)
}
