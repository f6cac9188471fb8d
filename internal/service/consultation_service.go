package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/errcode"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/repository"
	"github.com/Ken-Miura/career-change-supporter-sub005/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConsultationService handles the request/acceptance flow that feeds the
// settlement workflow: one authorization hold per accepted request.
type ConsultationService struct {
	cfg              config.SettlementConfig
	gatewayCfg       config.PayGatewayConfig
	consultantRepo   *repository.ConsultantRepository
	requestRepo      *repository.ConsultationRequestRepository
	consultationRepo *repository.ConsultationRepository
	ratingRepo       *repository.RatingRepository
	settlementRepo   *repository.SettlementRepository
	gateway          payment.Provider
	now              func() time.Time
}

func NewConsultationService(
	cfg config.SettlementConfig,
	gatewayCfg config.PayGatewayConfig,
	consultantRepo *repository.ConsultantRepository,
	requestRepo *repository.ConsultationRequestRepository,
	consultationRepo *repository.ConsultationRepository,
	ratingRepo *repository.RatingRepository,
	settlementRepo *repository.SettlementRepository,
	gateway payment.Provider,
) *ConsultationService {
	return &ConsultationService{
		cfg:              cfg,
		gatewayCfg:       gatewayCfg,
		consultantRepo:   consultantRepo,
		requestRepo:      requestRepo,
		consultationRepo: consultationRepo,
		ratingRepo:       ratingRepo,
		settlementRepo:   settlementRepo,
		gateway:          gateway,
		now:              time.Now,
	}
}

// RequestConsultation checks the fee against the consultant's current
// configuration, creates the authorization hold and persists the request.
// Exactly one hold is created per request; gateway errors are not retried.
func (s *ConsultationService) RequestConsultation(
	ctx context.Context,
	requesterID, consultantID, feePerHourInYen int64,
	cardToken string,
	candidates [3]time.Time,
) (string, error) {
	if consultantID <= 0 {
		return "", errcode.UserAccountIdIsNotPositive
	}
	now := s.now()
	for _, c := range candidates {
		if c.IsZero() || !c.After(now) {
			return "", errcode.InvalidCandidateDateTime
		}
	}
	profile, err := s.consultantRepo.GetByUserAccountID(consultantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errcode.NoConsultantFound
		}
		return "", err
	}
	if profile.FeePerHourInYen != feePerHourInYen {
		return "", errcode.FeePerHourInYenWasUpdated
	}
	charge, err := s.gateway.CreateHold(ctx, payment.HoldRequest{
		AmountInYen:  feePerHourInYen,
		CardToken:    cardToken,
		TenantID:     s.gatewayCfg.TenantID,
		ExpiryDays:   s.cfg.CreditFacilitiesValidDays,
		ThreeDSecure: true,
		Description:  fmt.Sprintf("consultation request for consultant %d", consultantID),
	})
	if err != nil {
		return "", fmt.Errorf("create authorization hold: %w", err)
	}
	latest := candidates[0]
	for _, c := range candidates[1:] {
		if c.After(latest) {
			latest = c
		}
	}
	req := &models.ConsultationRequest{
		RequesterID:             requesterID,
		ConsultantID:            consultantID,
		FeePerHourInYen:         feePerHourInYen,
		FirstCandidateDateTime:  candidates[0],
		SecondCandidateDateTime: candidates[1],
		ThirdCandidateDateTime:  candidates[2],
		ChargeID:                charge.ID,
		LatestCandidateDateTime: latest,
	}
	if err := s.requestRepo.Create(req); err != nil {
		return "", fmt.Errorf("persist consultation request: %w", err)
	}
	return charge.ID, nil
}

// AcceptRequest consumes the request and creates the Consultation, its
// nullable rating rows and the Settlement, all in one transaction.
func (s *ConsultationService) AcceptRequest(callerID, requestID int64, pickedCandidate int) (int64, error) {
	if requestID <= 0 {
		return 0, errcode.ConsultationReqIdIsNotPositive
	}
	if pickedCandidate < 1 || pickedCandidate > 3 {
		return 0, errcode.InvalidPickedCandidate
	}
	var consultationID int64
	err := s.settlementRepo.Transaction(func(tx *gorm.DB) error {
		req, err := s.requestRepo.LockByID(tx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoConsultationReqFound
			}
			return err
		}
		if req.ConsultantID != callerID {
			return errcode.NotConsultationParticipant
		}
		var meetingAt time.Time
		switch pickedCandidate {
		case 1:
			meetingAt = req.FirstCandidateDateTime
		case 2:
			meetingAt = req.SecondCandidateDateTime
		case 3:
			meetingAt = req.ThirdCandidateDateTime
		}
		if err := s.requestRepo.DeleteByID(tx, req.ID); err != nil {
			return err
		}
		consultation := &models.Consultation{
			RequesterID:  req.RequesterID,
			ConsultantID: req.ConsultantID,
			MeetingAt:    meetingAt,
			RoomName:     uuid.New().String(),
		}
		if err := s.consultationRepo.Create(tx, consultation); err != nil {
			return err
		}
		consultationID = consultation.ConsultationID
		if err := s.ratingRepo.CreateEmptyPair(tx, consultationID); err != nil {
			return err
		}
		return s.settlementRepo.Create(tx, &models.Settlement{
			ConsultationID:              consultationID,
			ChargeID:                    req.ChargeID,
			FeePerHourInYen:             req.FeePerHourInYen,
			PlatformFeeRateInPercentage: s.cfg.PlatformFeeRateInPercentage,
			CreditFacilitiesExpiredAt:   req.CreatedAt.AddDate(0, 0, s.cfg.CreditFacilitiesValidDays),
		})
	})
	if err != nil {
		return 0, err
	}
	return consultationID, nil
}

// PruneExpiredRequests releases holds for requests whose every candidate has
// passed and removes the rows. Gateway failures are logged and skipped; the
// next batch run picks the row up again.
func (s *ConsultationService) PruneExpiredRequests(ctx context.Context, limit int) int {
	reqs, err := s.requestRepo.ListExpired(s.now(), limit)
	if err != nil {
		log.Printf("[ConsultationReq] list expired: %v", err)
		return 0
	}
	pruned := 0
	for _, req := range reqs {
		if _, err := s.gateway.Refund(ctx, req.ChargeID); err != nil {
			log.Printf("[ConsultationReq] release hold %s for req %d: %v", req.ChargeID, req.ID, err)
			continue
		}
		err := s.settlementRepo.Transaction(func(tx *gorm.DB) error {
			if _, err := s.requestRepo.LockByID(tx, req.ID); err != nil {
				return err
			}
			return s.requestRepo.DeleteByID(tx, req.ID)
		})
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[ConsultationReq] prune req %d: %v", req.ID, err)
			}
			continue
		}
		pruned++
	}
	return pruned
}
