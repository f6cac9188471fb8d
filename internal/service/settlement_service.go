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

	"gorm.io/gorm"
)

// SettlementService orchestrates the settlement state machine. Every
// transition is a move: lock the source row, insert the destination, delete
// the source, one transaction. A mover that finds the source gone reports the
// domain not-found code, so each transition happens at most once no matter how
// many callers race on it.
type SettlementService struct {
	cfg              config.SettlementConfig
	settlementRepo   *repository.SettlementRepository
	payoutRepo       *repository.PayoutRepository
	receiptRepo      *repository.ReceiptRepository
	consultationRepo *repository.ConsultationRepository
	ratingRepo       *repository.RatingRepository
	consultantRepo   *repository.ConsultantRepository
	gateway          payment.Provider
	now              func() time.Time
}

func NewSettlementService(
	cfg config.SettlementConfig,
	settlementRepo *repository.SettlementRepository,
	payoutRepo *repository.PayoutRepository,
	receiptRepo *repository.ReceiptRepository,
	consultationRepo *repository.ConsultationRepository,
	ratingRepo *repository.RatingRepository,
	consultantRepo *repository.ConsultantRepository,
	gateway payment.Provider,
) *SettlementService {
	return &SettlementService{
		cfg:              cfg,
		settlementRepo:   settlementRepo,
		payoutRepo:       payoutRepo,
		receiptRepo:      receiptRepo,
		consultationRepo: consultationRepo,
		ratingRepo:       ratingRepo,
		consultantRepo:   consultantRepo,
		gateway:          gateway,
		now:              time.Now,
	}
}

// StopSettlement halts automatic processing: Settlement → StoppedSettlement.
func (s *SettlementService) StopSettlement(consultationID int64) error {
	if consultationID <= 0 {
		return errcode.ConsultationIdIsNotPositive
	}
	return s.settlementRepo.Transaction(func(tx *gorm.DB) error {
		st, err := s.settlementRepo.LockByConsultationID(tx, consultationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoSettlementFound
			}
			return err
		}
		stopped := &models.StoppedSettlement{
			ConsultationID:              st.ConsultationID,
			ChargeID:                    st.ChargeID,
			FeePerHourInYen:             st.FeePerHourInYen,
			PlatformFeeRateInPercentage: st.PlatformFeeRateInPercentage,
			CreditFacilitiesExpiredAt:   st.CreditFacilitiesExpiredAt,
			StoppedAt:                   s.now(),
		}
		if err := s.settlementRepo.CreateStopped(tx, stopped); err != nil {
			return err
		}
		return s.settlementRepo.DeleteBySettlementID(tx, st.SettlementID)
	})
}

// ResumeSettlement reactivates a stopped settlement while its hold is still
// capturable: StoppedSettlement → Settlement. Past the hold's hard deadline
// the row is left untouched and CreditFacilitiesAlreadyExpired is reported.
func (s *SettlementService) ResumeSettlement(stoppedSettlementID int64) error {
	if stoppedSettlementID <= 0 {
		return errcode.StoppedSettlementIdIsNotPositive
	}
	return s.settlementRepo.Transaction(func(tx *gorm.DB) error {
		st, err := s.settlementRepo.LockStoppedByID(tx, stoppedSettlementID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoStoppedSettlementFound
			}
			return err
		}
		if s.now().After(st.CreditFacilitiesExpiredAt) {
			return errcode.CreditFacilitiesAlreadyExpired
		}
		settlement := &models.Settlement{
			ConsultationID:              st.ConsultationID,
			ChargeID:                    st.ChargeID,
			FeePerHourInYen:             st.FeePerHourInYen,
			PlatformFeeRateInPercentage: st.PlatformFeeRateInPercentage,
			CreditFacilitiesExpiredAt:   st.CreditFacilitiesExpiredAt,
		}
		if err := s.settlementRepo.Create(tx, settlement); err != nil {
			return err
		}
		return s.settlementRepo.DeleteStoppedByID(tx, st.StoppedSettlementID)
	})
}

// CaptureSettlement finalizes the hold: Settlement → AwaitingPayment, plus the
// Receipt projection.
func (s *SettlementService) CaptureSettlement(ctx context.Context, consultationID int64) error {
	if consultationID <= 0 {
		return errcode.ConsultationIdIsNotPositive
	}
	return s.settlementRepo.Transaction(func(tx *gorm.DB) error {
		st, err := s.settlementRepo.LockByConsultationID(tx, consultationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoSettlementFound
			}
			return err
		}
		now := s.now()
		if now.After(st.CreditFacilitiesExpiredAt) {
			return errcode.CreditFacilitiesAlreadyExpired
		}
		consultation, err := s.consultationRepo.GetByID(st.ConsultationID)
		if err != nil {
			return fmt.Errorf("consultation %d for settlement %d: %w", st.ConsultationID, st.SettlementID, err)
		}
		if _, err := s.gateway.Capture(ctx, st.ChargeID); err != nil {
			return fmt.Errorf("capture charge %s: %w", st.ChargeID, err)
		}
		ap := &models.AwaitingPayment{
			ConsultationID:              st.ConsultationID,
			RequesterID:                 consultation.RequesterID,
			ConsultantID:                consultation.ConsultantID,
			MeetingAt:                   consultation.MeetingAt,
			FeePerHourInYen:             st.FeePerHourInYen,
			PlatformFeeRateInPercentage: st.PlatformFeeRateInPercentage,
			ChargeID:                    st.ChargeID,
			CreatedAt:                   now,
		}
		if err := s.payoutRepo.CreateAwaitingPayment(tx, ap); err != nil {
			return err
		}
		receipt := &models.Receipt{
			ConsultationID:              st.ConsultationID,
			ChargeID:                    st.ChargeID,
			FeePerHourInYen:             st.FeePerHourInYen,
			PlatformFeeRateInPercentage: st.PlatformFeeRateInPercentage,
			SettledAt:                   now,
		}
		if err := s.receiptRepo.CreateReceipt(tx, receipt); err != nil {
			return err
		}
		return s.settlementRepo.DeleteBySettlementID(tx, st.SettlementID)
	})
}

// RefundSettlement returns the money to the requester when the capture path is
// no longer viable: Settlement → RefundedPayment, plus the Refund projection.
func (s *SettlementService) RefundSettlement(ctx context.Context, consultationID int64, reason, confirmedBy string) error {
	if consultationID <= 0 {
		return errcode.ConsultationIdIsNotPositive
	}
	return s.settlementRepo.Transaction(func(tx *gorm.DB) error {
		st, err := s.settlementRepo.LockByConsultationID(tx, consultationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoSettlementFound
			}
			return err
		}
		consultation, err := s.consultationRepo.GetByID(st.ConsultationID)
		if err != nil {
			return fmt.Errorf("consultation %d for settlement %d: %w", st.ConsultationID, st.SettlementID, err)
		}
		// An expired hold is released by the gateway on its own; the refund
		// call is still issued so an unexpired-but-anomalous hold is voided.
		if _, err := s.gateway.Refund(ctx, st.ChargeID); err != nil {
			log.Printf("[Settlement] refund charge %s: %v", st.ChargeID, err)
		}
		now := s.now()
		rp := &models.RefundedPayment{
			ConsultationID:              st.ConsultationID,
			RequesterID:                 consultation.RequesterID,
			ConsultantID:                consultation.ConsultantID,
			MeetingAt:                   consultation.MeetingAt,
			FeePerHourInYen:             st.FeePerHourInYen,
			PlatformFeeRateInPercentage: st.PlatformFeeRateInPercentage,
			TransferFeeInYen:            0,
			Reason:                      reason,
			RefundConfirmedBy:           confirmedBy,
			CreatedAt:                   now,
		}
		if err := s.payoutRepo.CreateRefundedPayment(tx, rp); err != nil {
			return err
		}
		refund := &models.Refund{
			ConsultationID:              st.ConsultationID,
			ChargeID:                    st.ChargeID,
			FeePerHourInYen:             st.FeePerHourInYen,
			PlatformFeeRateInPercentage: st.PlatformFeeRateInPercentage,
			RefundedAt:                  now,
		}
		if err := s.receiptRepo.CreateRefund(tx, refund); err != nil {
			return err
		}
		return s.settlementRepo.DeleteBySettlementID(tx, st.SettlementID)
	})
}

// ConfirmPayment records the admin's transfer arrangement:
// AwaitingPayment → AwaitingWithdrawal.
func (s *SettlementService) ConfirmPayment(consultationID int64, senderName, confirmedBy string) error {
	if consultationID <= 0 {
		return errcode.ConsultationIdIsNotPositive
	}
	return s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		ap, err := s.payoutRepo.LockAwaitingPayment(tx, consultationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoAwaitingPaymentFound
			}
			return err
		}
		if senderName == "" {
			senderName = ap.SenderName
		}
		aw := &models.AwaitingWithdrawal{
			ConsultationID:              ap.ConsultationID,
			RequesterID:                 ap.RequesterID,
			ConsultantID:                ap.ConsultantID,
			MeetingAt:                   ap.MeetingAt,
			FeePerHourInYen:             ap.FeePerHourInYen,
			PlatformFeeRateInPercentage: ap.PlatformFeeRateInPercentage,
			ChargeID:                    ap.ChargeID,
			SenderName:                  senderName,
			PaymentConfirmedBy:          confirmedBy,
			CreatedAt:                   s.now(),
		}
		if err := s.payoutRepo.CreateAwaitingWithdrawal(tx, aw); err != nil {
			return err
		}
		return s.payoutRepo.DeleteAwaitingPayment(tx, ap.ConsultationID)
	})
}

// CompleteWithdrawal is the success terminal: AwaitingWithdrawal →
// ReceiptOfConsultation with the bank snapshot and the computed reward.
func (s *SettlementService) CompleteWithdrawal(consultationID int64, confirmedBy string) error {
	if consultationID <= 0 {
		return errcode.ConsultationIdIsNotPositive
	}
	return s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		aw, err := s.payoutRepo.LockAwaitingWithdrawal(tx, consultationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoAwaitingWithdrawalFound
			}
			return err
		}
		profile, err := s.consultantRepo.GetByUserAccountID(aw.ConsultantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoConsultantFound
			}
			return err
		}
		reward, err := Reward(aw.FeePerHourInYen, aw.PlatformFeeRateInPercentage, s.cfg.TransferFeeInYen)
		if err != nil {
			return err
		}
		rc := &models.ReceiptOfConsultation{
			ConsultationID:              aw.ConsultationID,
			RequesterID:                 aw.RequesterID,
			ConsultantID:                aw.ConsultantID,
			MeetingAt:                   aw.MeetingAt,
			FeePerHourInYen:             aw.FeePerHourInYen,
			PlatformFeeRateInPercentage: aw.PlatformFeeRateInPercentage,
			BankCode:                    profile.BankCode,
			BranchCode:                  profile.BranchCode,
			AccountType:                 profile.AccountType,
			AccountNumber:               profile.AccountNumber,
			AccountHolderName:           profile.AccountHolderName,
			TransferFeeInYen:            s.cfg.TransferFeeInYen,
			RewardInYen:                 reward,
			WithdrawalConfirmedBy:       confirmedBy,
			CreatedAt:                   s.now(),
		}
		if err := s.payoutRepo.CreateReceiptOfConsultation(tx, rc); err != nil {
			return err
		}
		return s.payoutRepo.DeleteAwaitingWithdrawal(tx, aw.ConsultationID)
	})
}

// LeaveAwaitingWithdrawal closes the case without a payout and without harm:
// AwaitingWithdrawal → LeftAwaitingWithdrawal.
func (s *SettlementService) LeaveAwaitingWithdrawal(consultationID int64, confirmedBy string) error {
	if consultationID <= 0 {
		return errcode.ConsultationIdIsNotPositive
	}
	return s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		aw, err := s.payoutRepo.LockAwaitingWithdrawal(tx, consultationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoAwaitingWithdrawalFound
			}
			return err
		}
		l := &models.LeftAwaitingWithdrawal{
			ConsultationID:              aw.ConsultationID,
			RequesterID:                 aw.RequesterID,
			ConsultantID:                aw.ConsultantID,
			MeetingAt:                   aw.MeetingAt,
			FeePerHourInYen:             aw.FeePerHourInYen,
			PlatformFeeRateInPercentage: aw.PlatformFeeRateInPercentage,
			ConfirmedBy:                 confirmedBy,
			CreatedAt:                   s.now(),
		}
		if err := s.payoutRepo.CreateLeftAwaitingWithdrawal(tx, l); err != nil {
			return err
		}
		return s.payoutRepo.DeleteAwaitingWithdrawal(tx, aw.ConsultationID)
	})
}

// NeglectPayment flags a missed payout window: AwaitingWithdrawal →
// NeglectedPayment.
func (s *SettlementService) NeglectPayment(consultationID int64, confirmedBy string) error {
	if consultationID <= 0 {
		return errcode.ConsultationIdIsNotPositive
	}
	return s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		aw, err := s.payoutRepo.LockAwaitingWithdrawal(tx, consultationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoAwaitingWithdrawalFound
			}
			return err
		}
		n := &models.NeglectedPayment{
			ConsultationID:              aw.ConsultationID,
			RequesterID:                 aw.RequesterID,
			ConsultantID:                aw.ConsultantID,
			MeetingAt:                   aw.MeetingAt,
			FeePerHourInYen:             aw.FeePerHourInYen,
			PlatformFeeRateInPercentage: aw.PlatformFeeRateInPercentage,
			NeglectConfirmedBy:          confirmedBy,
			CreatedAt:                   s.now(),
		}
		if err := s.payoutRepo.CreateNeglectedPayment(tx, n); err != nil {
			return err
		}
		return s.payoutRepo.DeleteAwaitingWithdrawal(tx, aw.ConsultationID)
	})
}

// RefundFromAwaitingWithdrawal resolves a dispute against the consultant:
// AwaitingWithdrawal → RefundedPayment, refunding the captured charge.
func (s *SettlementService) RefundFromAwaitingWithdrawal(ctx context.Context, consultationID int64, reason, confirmedBy string) error {
	if consultationID <= 0 {
		return errcode.ConsultationIdIsNotPositive
	}
	if reason == "" {
		return errcode.RefundReasonIsEmpty
	}
	return s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		aw, err := s.payoutRepo.LockAwaitingWithdrawal(tx, consultationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoAwaitingWithdrawalFound
			}
			return err
		}
		if _, err := s.gateway.Refund(ctx, aw.ChargeID); err != nil {
			return fmt.Errorf("refund charge %s: %w", aw.ChargeID, err)
		}
		now := s.now()
		rp := &models.RefundedPayment{
			ConsultationID:              aw.ConsultationID,
			RequesterID:                 aw.RequesterID,
			ConsultantID:                aw.ConsultantID,
			MeetingAt:                   aw.MeetingAt,
			FeePerHourInYen:             aw.FeePerHourInYen,
			PlatformFeeRateInPercentage: aw.PlatformFeeRateInPercentage,
			TransferFeeInYen:            s.cfg.TransferFeeInYen,
			Reason:                      reason,
			RefundConfirmedBy:           confirmedBy,
			CreatedAt:                   now,
		}
		if err := s.payoutRepo.CreateRefundedPayment(tx, rp); err != nil {
			return err
		}
		refund := &models.Refund{
			ConsultationID:              aw.ConsultationID,
			ChargeID:                    aw.ChargeID,
			FeePerHourInYen:             aw.FeePerHourInYen,
			PlatformFeeRateInPercentage: aw.PlatformFeeRateInPercentage,
			RefundedAt:                  now,
		}
		if err := s.receiptRepo.CreateRefund(tx, refund); err != nil {
			return err
		}
		return s.payoutRepo.DeleteAwaitingWithdrawal(tx, aw.ConsultationID)
	})
}

// RunCaptureBatch is the periodic trigger: capture every settlement whose
// meeting has ended and whose two ratings are in, divert capture failures to
// StoppedSettlement, and refund settlements whose hold has lapsed.
func (s *SettlementService) RunCaptureBatch(ctx context.Context, limit int) (captured, stopped, refunded int) {
	meetingLength := time.Duration(s.cfg.MeetingLengthMinutes) * time.Minute
	due, err := s.settlementRepo.ListDueForCapture(s.now(), meetingLength, limit)
	if err != nil {
		log.Printf("[SettlementBatch] list due: %v", err)
		return
	}
	for _, st := range due {
		both, err := s.ratingRepo.BothSubmitted(st.ConsultationID)
		if err != nil {
			log.Printf("[SettlementBatch] ratings for consultation %d: %v", st.ConsultationID, err)
			continue
		}
		if !both {
			// The rating gate is still open; the hold-expiry sweep below
			// handles the case where it never closes in time.
			continue
		}
		if err := s.CaptureSettlement(ctx, st.ConsultationID); err != nil {
			log.Printf("[SettlementBatch] capture consultation %d: %v", st.ConsultationID, err)
			if stopErr := s.StopSettlement(st.ConsultationID); stopErr != nil {
				log.Printf("[SettlementBatch] stop consultation %d: %v", st.ConsultationID, stopErr)
			} else {
				stopped++
			}
			continue
		}
		captured++
	}
	expired, err := s.settlementRepo.ListExpired(s.now(), limit)
	if err != nil {
		log.Printf("[SettlementBatch] list expired: %v", err)
		return
	}
	for _, st := range expired {
		if err := s.RefundSettlement(ctx, st.ConsultationID, "credit facilities expired before capture", "settlement-batch"); err != nil {
			log.Printf("[SettlementBatch] refund consultation %d: %v", st.ConsultationID, err)
			continue
		}
		refunded++
	}
	return
}
