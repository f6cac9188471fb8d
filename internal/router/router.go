package router

import (
	"time"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/handler"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/middleware"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/repository"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/service"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/ws"
	"github.com/Ken-Miura/career-change-supporter-sub005/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services bundles the workflow services the router and the batch worker
// share.
type Services struct {
	Consultation *service.ConsultationService
	Rating       *service.RatingService
	Settlement   *service.SettlementService
}

func Setup(cfg *config.Config, db *gorm.DB, gateway payment.Provider) (*gin.Engine, *Services) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserAccountRepository(db)
	consultantRepo := repository.NewConsultantRepository(db)
	requestRepo := repository.NewConsultationRequestRepository(db)
	consultationRepo := repository.NewConsultationRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)

	// Services
	consultationSvc := service.NewConsultationService(
		cfg.Settlement, cfg.PayGateway,
		consultantRepo, requestRepo, consultationRepo, ratingRepo, settlementRepo,
		gateway,
	)
	ratingSvc := service.NewRatingService(cfg.Settlement, ratingRepo, consultationRepo)
	settlementSvc := service.NewSettlementService(
		cfg.Settlement,
		settlementRepo, payoutRepo, receiptRepo, consultationRepo, ratingRepo, consultantRepo,
		gateway,
	)

	roomHub := ws.NewRoomHub()

	// Handlers
	authHandler := handler.NewAuthHandler(&cfg.JWT, userRepo)
	consultationHandler := handler.NewConsultationHandler(consultationSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	roomHandler := handler.NewRoomHandler(&cfg.JWT, consultationRepo, roomHub)
	adminQueryHandler := handler.NewAdminQueryHandler(cfg.Settlement, payoutRepo, settlementRepo, receiptRepo, ratingRepo)
	adminSettlementHandler := handler.NewAdminSettlementHandler(settlementSvc)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)
		// Websocket auth happens inside the handler (token query param).
		api.GET("/consultations/:id/room", roomHandler.Join)

		authed := api.Group("")
		authed.Use(middleware.AuthRequired(&cfg.JWT))
		{
			authed.POST("/consultation-requests", consultationHandler.Request)
			authed.POST("/consultation-requests/:id/acceptance", consultationHandler.Accept)
			authed.POST("/user-rating", ratingHandler.SubmitUserRating)
			authed.POST("/consultant-rating", ratingHandler.SubmitConsultantRating)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(&cfg.JWT), middleware.AdminRequired())
		{
			admin.GET("/awaiting-payments", adminQueryHandler.ListAwaitingPayments)
			admin.GET("/awaiting-payment", adminQueryHandler.GetAwaitingPayment)
			admin.GET("/awaiting-withdrawal", adminQueryHandler.GetAwaitingWithdrawal)
			admin.GET("/left-awaiting-withdrawal", adminQueryHandler.GetLeftAwaitingWithdrawal)
			admin.GET("/neglected-payment", adminQueryHandler.GetNeglectedPayment)
			admin.GET("/refunded-payment", adminQueryHandler.GetRefundedPayment)
			admin.GET("/settlement", adminQueryHandler.GetSettlement)
			admin.GET("/receipt", adminQueryHandler.GetReceipt)
			admin.GET("/refund", adminQueryHandler.GetRefund)
			admin.GET("/receipt-of-consultation", adminQueryHandler.GetReceiptOfConsultation)
			admin.GET("/user-rating", adminQueryHandler.GetUserRating)
			admin.GET("/consultant-rating", adminQueryHandler.GetConsultantRating)

			admin.POST("/resume-settlement-req", adminSettlementHandler.ResumeSettlement)
			admin.POST("/stop-settlement", adminSettlementHandler.StopSettlement)
			admin.POST("/awaiting-payment-confirmation", adminSettlementHandler.ConfirmPayment)
			admin.POST("/withdrawal-completion", adminSettlementHandler.CompleteWithdrawal)
			admin.POST("/leave-awaiting-withdrawal", adminSettlementHandler.LeaveAwaitingWithdrawal)
			admin.POST("/neglected-payment", adminSettlementHandler.NeglectPayment)
			admin.POST("/refund-from-awaiting-withdrawal", adminSettlementHandler.RefundFromAwaitingWithdrawal)
		}
	}

	return r, &Services{
		Consultation: consultationSvc,
		Rating:       ratingSvc,
		Settlement:   settlementSvc,
	}
}
