package service

import (
	"context"
	"testing"
	"time"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/domain"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/errcode"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/repository"
	"github.com/Ken-Miura/career-change-supporter-sub005/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var jst = time.FixedZone("JST", 9*60*60)

type settlementFixture struct {
	svc     *SettlementService
	db      *gorm.DB
	gateway *payment.StubProvider
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	db := newTestDB(t)
	cfg := config.SettlementConfig{
		ListPageSize:                20,
		MeetingLengthMinutes:        60,
		CreditFacilitiesValidDays:   7,
		PlatformFeeRateInPercentage: "30.0",
		TransferFeeInYen:            250,
	}
	gateway := payment.NewStubProvider()
	svc := NewSettlementService(
		cfg,
		repository.NewSettlementRepository(db),
		repository.NewPayoutRepository(db),
		repository.NewReceiptRepository(db),
		repository.NewConsultationRepository(db),
		repository.NewRatingRepository(db),
		repository.NewConsultantRepository(db),
		gateway,
	)
	return &settlementFixture{svc: svc, db: db, gateway: gateway}
}

// seedSettlement creates a consultation, its rating rows and a settlement with
// a real hold on the stub gateway.
func (f *settlementFixture) seedSettlement(t *testing.T, meetingAt, expiredAt time.Time) *models.Settlement {
	t.Helper()
	charge, err := f.gateway.CreateHold(context.Background(), payment.HoldRequest{
		AmountInYen: 5000,
		CardToken:   "tok_test",
		ExpiryDays:  7,
	})
	require.NoError(t, err)
	consultation := &models.Consultation{
		RequesterID:  testRequesterID,
		ConsultantID: testConsultantID,
		MeetingAt:    meetingAt,
		RoomName:     "room",
	}
	require.NoError(t, f.db.Create(consultation).Error)
	require.NoError(t, f.db.Create(&models.UserRating{ConsultationID: consultation.ConsultationID}).Error)
	require.NoError(t, f.db.Create(&models.ConsultantRating{ConsultationID: consultation.ConsultationID}).Error)
	s := &models.Settlement{
		ConsultationID:              consultation.ConsultationID,
		ChargeID:                    charge.ID,
		FeePerHourInYen:             5000,
		PlatformFeeRateInPercentage: "30.0",
		CreditFacilitiesExpiredAt:   expiredAt,
	}
	require.NoError(t, f.db.Create(s).Error)
	return s
}

func (f *settlementFixture) rateBothSides(t *testing.T) {
	t.Helper()
	v := int16(5)
	at := time.Now()
	require.NoError(t, f.db.Model(&models.UserRating{}).Where("1 = 1").Updates(map[string]interface{}{"rating": v, "rated_at": at}).Error)
	require.NoError(t, f.db.Model(&models.ConsultantRating{}).Where("1 = 1").Updates(map[string]interface{}{"rating": v, "rated_at": at}).Error)
}

func TestResumeSettlement(t *testing.T) {
	expiredAt := time.Date(2023, 6, 20, 10, 0, 0, 0, jst)
	meetingAt := expiredAt.Add(-48 * time.Hour)

	seedStopped := func(t *testing.T, f *settlementFixture) *models.StoppedSettlement {
		s := f.seedSettlement(t, meetingAt, expiredAt)
		stopped := &models.StoppedSettlement{
			StoppedSettlementID:         501,
			ConsultationID:              s.ConsultationID,
			ChargeID:                    s.ChargeID,
			FeePerHourInYen:             s.FeePerHourInYen,
			PlatformFeeRateInPercentage: s.PlatformFeeRateInPercentage,
			CreditFacilitiesExpiredAt:   s.CreditFacilitiesExpiredAt,
			StoppedAt:                   meetingAt,
		}
		require.NoError(t, f.db.Delete(&models.Settlement{}, s.SettlementID).Error)
		require.NoError(t, f.db.Create(stopped).Error)
		return stopped
	}

	t.Run("id not positive", func(t *testing.T) {
		f := newSettlementFixture(t)
		assert.ErrorIs(t, f.svc.ResumeSettlement(0), errcode.StoppedSettlementIdIsNotPositive)
		assert.ErrorIs(t, f.svc.ResumeSettlement(-501), errcode.StoppedSettlementIdIsNotPositive)
	})

	t.Run("one second before expiry succeeds", func(t *testing.T) {
		f := newSettlementFixture(t)
		stopped := seedStopped(t, f)
		f.svc.now = func() time.Time { return time.Date(2023, 6, 20, 9, 59, 59, 0, jst) }

		require.NoError(t, f.svc.ResumeSettlement(501))

		var count int64
		f.db.Model(&models.StoppedSettlement{}).Count(&count)
		assert.Equal(t, int64(0), count)
		var s models.Settlement
		require.NoError(t, f.db.Where("consultation_id = ?", stopped.ConsultationID).First(&s).Error)
		assert.Equal(t, stopped.ChargeID, s.ChargeID)
		assert.True(t, s.CreditFacilitiesExpiredAt.Equal(expiredAt))
	})

	t.Run("one second after expiry fails and leaves the row", func(t *testing.T) {
		f := newSettlementFixture(t)
		seedStopped(t, f)
		f.svc.now = func() time.Time { return time.Date(2023, 6, 20, 10, 0, 1, 0, jst) }

		err := f.svc.ResumeSettlement(501)
		assert.ErrorIs(t, err, errcode.CreditFacilitiesAlreadyExpired)

		var count int64
		f.db.Model(&models.StoppedSettlement{}).Count(&count)
		assert.Equal(t, int64(1), count)
		f.db.Model(&models.Settlement{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("exactly at expiry succeeds", func(t *testing.T) {
		f := newSettlementFixture(t)
		seedStopped(t, f)
		f.svc.now = func() time.Time { return expiredAt }
		assert.NoError(t, f.svc.ResumeSettlement(501))
	})

	t.Run("second resume observes not found", func(t *testing.T) {
		f := newSettlementFixture(t)
		seedStopped(t, f)
		f.svc.now = func() time.Time { return time.Date(2023, 6, 20, 9, 0, 0, 0, jst) }

		require.NoError(t, f.svc.ResumeSettlement(501))
		err := f.svc.ResumeSettlement(501)
		assert.ErrorIs(t, err, errcode.NoStoppedSettlementFound)
	})
}

func TestStopSettlement(t *testing.T) {
	f := newSettlementFixture(t)
	meetingAt := time.Date(2023, 6, 18, 10, 0, 0, 0, jst)
	s := f.seedSettlement(t, meetingAt, meetingAt.AddDate(0, 0, 7))

	assert.ErrorIs(t, f.svc.StopSettlement(0), errcode.ConsultationIdIsNotPositive)

	require.NoError(t, f.svc.StopSettlement(s.ConsultationID))

	var count int64
	f.db.Model(&models.Settlement{}).Count(&count)
	assert.Equal(t, int64(0), count)
	var stopped models.StoppedSettlement
	require.NoError(t, f.db.Where("consultation_id = ?", s.ConsultationID).First(&stopped).Error)
	assert.Equal(t, s.ChargeID, stopped.ChargeID)
	assert.False(t, stopped.StoppedAt.IsZero())

	// The settlement is gone; a second stop reports not found.
	assert.ErrorIs(t, f.svc.StopSettlement(s.ConsultationID), errcode.NoSettlementFound)
}

func TestCaptureSettlement(t *testing.T) {
	meetingAt := time.Date(2023, 6, 18, 10, 0, 0, 0, jst)

	t.Run("moves to awaiting payment and writes the receipt", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.seedSettlement(t, meetingAt, meetingAt.AddDate(0, 0, 7))
		f.svc.now = func() time.Time { return meetingAt.Add(2 * time.Hour) }

		require.NoError(t, f.svc.CaptureSettlement(context.Background(), s.ConsultationID))

		var count int64
		f.db.Model(&models.Settlement{}).Count(&count)
		assert.Equal(t, int64(0), count)

		var ap models.AwaitingPayment
		require.NoError(t, f.db.Where("consultation_id = ?", s.ConsultationID).First(&ap).Error)
		assert.Equal(t, testRequesterID, ap.RequesterID)
		assert.Equal(t, testConsultantID, ap.ConsultantID)
		assert.Equal(t, int64(5000), ap.FeePerHourInYen)

		var receipt models.Receipt
		require.NoError(t, f.db.Where("consultation_id = ?", s.ConsultationID).First(&receipt).Error)
		assert.Equal(t, s.ChargeID, receipt.ChargeID)

		// The move is exactly-once: the loser of a race sees not found.
		err := f.svc.CaptureSettlement(context.Background(), s.ConsultationID)
		assert.ErrorIs(t, err, errcode.NoSettlementFound)
	})

	t.Run("expired hold is not capturable", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.seedSettlement(t, meetingAt, meetingAt.AddDate(0, 0, 7))
		f.svc.now = func() time.Time { return meetingAt.AddDate(0, 0, 8) }

		err := f.svc.CaptureSettlement(context.Background(), s.ConsultationID)
		assert.ErrorIs(t, err, errcode.CreditFacilitiesAlreadyExpired)

		var count int64
		f.db.Model(&models.Settlement{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("gateway failure rolls the move back", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.seedSettlement(t, meetingAt, meetingAt.AddDate(0, 0, 7))
		f.svc.now = func() time.Time { return meetingAt.Add(2 * time.Hour) }
		f.gateway.FailCapture = true

		err := f.svc.CaptureSettlement(context.Background(), s.ConsultationID)
		require.Error(t, err)
		assert.Equal(t, errcode.UnexpectedErr, errcode.Decode(err))

		var count int64
		f.db.Model(&models.Settlement{}).Count(&count)
		assert.Equal(t, int64(1), count)
		f.db.Model(&models.AwaitingPayment{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestRefundSettlement(t *testing.T) {
	f := newSettlementFixture(t)
	meetingAt := time.Date(2023, 6, 18, 10, 0, 0, 0, jst)
	s := f.seedSettlement(t, meetingAt, meetingAt.AddDate(0, 0, 7))

	require.NoError(t, f.svc.RefundSettlement(context.Background(), s.ConsultationID, "credit facilities expired before capture", "settlement-batch"))

	var count int64
	f.db.Model(&models.Settlement{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var rp models.RefundedPayment
	require.NoError(t, f.db.Where("consultation_id = ?", s.ConsultationID).First(&rp).Error)
	assert.Equal(t, "settlement-batch", rp.RefundConfirmedBy)

	var refund models.Refund
	require.NoError(t, f.db.Where("consultation_id = ?", s.ConsultationID).First(&refund).Error)
	assert.Equal(t, s.ChargeID, refund.ChargeID)
}

func TestPayoutFlow(t *testing.T) {
	f := newSettlementFixture(t)
	meetingAt := time.Date(2023, 6, 18, 10, 0, 0, 0, jst)
	s := f.seedSettlement(t, meetingAt, meetingAt.AddDate(0, 0, 7))
	f.svc.now = func() time.Time { return meetingAt.Add(2 * time.Hour) }

	require.NoError(t, f.db.Create(&models.UserAccount{
		ID:    testConsultantID,
		Email: "consultant@example.com",
		Role:  domain.RoleConsultant,
	}).Error)
	require.NoError(t, f.db.Create(&models.ConsultantProfile{
		UserAccountID:     testConsultantID,
		FeePerHourInYen:   5000,
		BankCode:          "0001",
		BranchCode:        "123",
		AccountType:       "ordinary",
		AccountNumber:     "1234567",
		AccountHolderName: "ヤマダ タロウ",
	}).Error)

	require.NoError(t, f.svc.CaptureSettlement(context.Background(), s.ConsultationID))

	assert.ErrorIs(t, f.svc.CompleteWithdrawal(s.ConsultationID, "admin@example.com"), errcode.NoAwaitingWithdrawalFound)

	require.NoError(t, f.svc.ConfirmPayment(s.ConsultationID, "ヤマダ タロウ", "admin@example.com"))

	var aw models.AwaitingWithdrawal
	require.NoError(t, f.db.Where("consultation_id = ?", s.ConsultationID).First(&aw).Error)
	assert.Equal(t, "admin@example.com", aw.PaymentConfirmedBy)
	assert.Equal(t, "ヤマダ タロウ", aw.SenderName)

	var count int64
	f.db.Model(&models.AwaitingPayment{}).Count(&count)
	assert.Equal(t, int64(0), count)

	require.NoError(t, f.svc.CompleteWithdrawal(s.ConsultationID, "admin@example.com"))

	var rc models.ReceiptOfConsultation
	require.NoError(t, f.db.Where("consultation_id = ?", s.ConsultationID).First(&rc).Error)
	assert.Equal(t, int64(3250), rc.RewardInYen) // 5000 - 1500 - 250
	assert.Equal(t, "0001", rc.BankCode)
	assert.Equal(t, "admin@example.com", rc.WithdrawalConfirmedBy)

	f.db.Model(&models.AwaitingWithdrawal{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRefundFromAwaitingWithdrawal(t *testing.T) {
	f := newSettlementFixture(t)
	meetingAt := time.Date(2023, 6, 18, 10, 0, 0, 0, jst)
	s := f.seedSettlement(t, meetingAt, meetingAt.AddDate(0, 0, 7))
	f.svc.now = func() time.Time { return meetingAt.Add(2 * time.Hour) }

	require.NoError(t, f.svc.CaptureSettlement(context.Background(), s.ConsultationID))
	require.NoError(t, f.svc.ConfirmPayment(s.ConsultationID, "sender", "admin@example.com"))

	err := f.svc.RefundFromAwaitingWithdrawal(context.Background(), s.ConsultationID, "", "admin@example.com")
	assert.ErrorIs(t, err, errcode.RefundReasonIsEmpty)

	require.NoError(t, f.svc.RefundFromAwaitingWithdrawal(context.Background(), s.ConsultationID, "dispute decided for requester", "admin@example.com"))

	var rp models.RefundedPayment
	require.NoError(t, f.db.Where("consultation_id = ?", s.ConsultationID).First(&rp).Error)
	assert.Equal(t, "dispute decided for requester", rp.Reason)

	var count int64
	f.db.Model(&models.AwaitingWithdrawal{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRunCaptureBatch(t *testing.T) {
	f := newSettlementFixture(t)
	now := time.Date(2023, 6, 20, 12, 0, 0, 0, jst)
	f.svc.now = func() time.Time { return now }

	// Rated, meeting over, hold valid: captured.
	captureMe := f.seedSettlement(t, now.Add(-3*time.Hour), now.AddDate(0, 0, 3))
	f.rateBothSides(t)
	// Meeting over but unrated: skipped.
	skipMe := f.seedSettlement(t, now.Add(-3*time.Hour), now.AddDate(0, 0, 3))
	// Hold lapsed: refunded.
	refundMe := f.seedSettlement(t, now.Add(-72*time.Hour), now.Add(-time.Hour))

	captured, stopped, refunded := f.svc.RunCaptureBatch(context.Background(), 100)
	assert.Equal(t, 1, captured)
	assert.Equal(t, 0, stopped)
	assert.Equal(t, 1, refunded)

	var ap models.AwaitingPayment
	require.NoError(t, f.db.Where("consultation_id = ?", captureMe.ConsultationID).First(&ap).Error)

	var s models.Settlement
	require.NoError(t, f.db.Where("consultation_id = ?", skipMe.ConsultationID).First(&s).Error)

	var rp models.RefundedPayment
	require.NoError(t, f.db.Where("consultation_id = ?", refundMe.ConsultationID).First(&rp).Error)
}
