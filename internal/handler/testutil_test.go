package handler

import (
	"testing"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/database"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/repository"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/service"
	"github.com/Ken-Miura/career-change-supporter-sub005/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(t.TempDir()+"/test.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testSettlementConfig() config.SettlementConfig {
	return config.SettlementConfig{
		ListPageSize:                20,
		MeetingLengthMinutes:        60,
		CreditFacilitiesValidDays:   7,
		PlatformFeeRateInPercentage: "30.0",
		TransferFeeInYen:            250,
	}
}

// newAdminRouter wires the admin surface without the auth middleware; the
// handlers under test do not depend on it.
func newAdminRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testSettlementConfig()
	payoutRepo := repository.NewPayoutRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	svc := service.NewSettlementService(
		cfg,
		settlementRepo,
		payoutRepo,
		receiptRepo,
		repository.NewConsultationRepository(db),
		ratingRepo,
		repository.NewConsultantRepository(db),
		payment.NewStubProvider(),
	)
	queryHandler := NewAdminQueryHandler(cfg, payoutRepo, settlementRepo, receiptRepo, ratingRepo)
	settlementHandler := NewAdminSettlementHandler(svc)

	r := gin.New()
	admin := r.Group("/api/v1/admin")
	{
		admin.GET("/awaiting-payments", queryHandler.ListAwaitingPayments)
		admin.GET("/awaiting-payment", queryHandler.GetAwaitingPayment)
		admin.GET("/awaiting-withdrawal", queryHandler.GetAwaitingWithdrawal)
		admin.GET("/left-awaiting-withdrawal", queryHandler.GetLeftAwaitingWithdrawal)
		admin.GET("/neglected-payment", queryHandler.GetNeglectedPayment)
		admin.GET("/refunded-payment", queryHandler.GetRefundedPayment)
		admin.GET("/settlement", queryHandler.GetSettlement)
		admin.GET("/receipt", queryHandler.GetReceipt)
		admin.GET("/refund", queryHandler.GetRefund)
		admin.GET("/receipt-of-consultation", queryHandler.GetReceiptOfConsultation)
		admin.POST("/stop-settlement", settlementHandler.StopSettlement)
		admin.POST("/resume-settlement-req", settlementHandler.ResumeSettlement)
		admin.POST("/awaiting-payment-confirmation", settlementHandler.ConfirmPayment)
		admin.POST("/withdrawal-completion", settlementHandler.CompleteWithdrawal)
	}
	return r
}
