package service

import (
	"context"
	"testing"
	"time"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/errcode"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/repository"
	"github.com/Ken-Miura/career-change-supporter-sub005/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type consultationFixture struct {
	svc     *ConsultationService
	db      *gorm.DB
	gateway *payment.StubProvider
}

func newConsultationFixture(t *testing.T) *consultationFixture {
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
	svc := NewConsultationService(
		cfg,
		config.PayGatewayConfig{},
		repository.NewConsultantRepository(db),
		repository.NewConsultationRequestRepository(db),
		repository.NewConsultationRepository(db),
		repository.NewRatingRepository(db),
		repository.NewSettlementRepository(db),
		gateway,
	)
	return &consultationFixture{svc: svc, db: db, gateway: gateway}
}

func (f *consultationFixture) seedConsultant(t *testing.T, fee int64) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.ConsultantProfile{
		UserAccountID:   testConsultantID,
		FeePerHourInYen: fee,
	}).Error)
}

func futureCandidates(base time.Time) [3]time.Time {
	return [3]time.Time{
		base.Add(24 * time.Hour),
		base.Add(72 * time.Hour),
		base.Add(48 * time.Hour),
	}
}

func TestRequestConsultation(t *testing.T) {
	base := time.Date(2023, 6, 10, 10, 0, 0, 0, time.UTC)

	t.Run("persists the request with the hold and the latest candidate", func(t *testing.T) {
		f := newConsultationFixture(t)
		f.seedConsultant(t, 5000)
		f.svc.now = func() time.Time { return base }

		chargeID, err := f.svc.RequestConsultation(context.Background(), testRequesterID, testConsultantID, 5000, "tok_test", futureCandidates(base))
		require.NoError(t, err)
		assert.NotEmpty(t, chargeID)

		var req models.ConsultationRequest
		require.NoError(t, f.db.First(&req).Error)
		assert.Equal(t, chargeID, req.ChargeID)
		assert.Equal(t, testRequesterID, req.RequesterID)
		// The second candidate is the furthest out.
		assert.True(t, req.LatestCandidateDateTime.Equal(base.Add(72*time.Hour)))
	})

	t.Run("stale fee is rejected without touching the gateway", func(t *testing.T) {
		f := newConsultationFixture(t)
		f.seedConsultant(t, 6000)
		f.svc.now = func() time.Time { return base }

		_, err := f.svc.RequestConsultation(context.Background(), testRequesterID, testConsultantID, 5000, "tok_test", futureCandidates(base))
		assert.ErrorIs(t, err, errcode.FeePerHourInYenWasUpdated)

		var count int64
		f.db.Model(&models.ConsultationRequest{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("unknown consultant", func(t *testing.T) {
		f := newConsultationFixture(t)
		f.svc.now = func() time.Time { return base }
		_, err := f.svc.RequestConsultation(context.Background(), testRequesterID, testConsultantID, 5000, "tok_test", futureCandidates(base))
		assert.ErrorIs(t, err, errcode.NoConsultantFound)
	})

	t.Run("candidate in the past", func(t *testing.T) {
		f := newConsultationFixture(t)
		f.seedConsultant(t, 5000)
		f.svc.now = func() time.Time { return base }

		candidates := futureCandidates(base)
		candidates[2] = base.Add(-time.Hour)
		_, err := f.svc.RequestConsultation(context.Background(), testRequesterID, testConsultantID, 5000, "tok_test", candidates)
		assert.ErrorIs(t, err, errcode.InvalidCandidateDateTime)
	})

	t.Run("consultant id not positive", func(t *testing.T) {
		f := newConsultationFixture(t)
		_, err := f.svc.RequestConsultation(context.Background(), testRequesterID, 0, 5000, "tok_test", futureCandidates(base))
		assert.ErrorIs(t, err, errcode.UserAccountIdIsNotPositive)
	})
}

func TestAcceptRequest(t *testing.T) {
	base := time.Date(2023, 6, 10, 10, 0, 0, 0, time.UTC)

	seedRequest := func(t *testing.T, f *consultationFixture) *models.ConsultationRequest {
		f.seedConsultant(t, 5000)
		f.svc.now = func() time.Time { return base }
		_, err := f.svc.RequestConsultation(context.Background(), testRequesterID, testConsultantID, 5000, "tok_test", futureCandidates(base))
		require.NoError(t, err)
		var req models.ConsultationRequest
		require.NoError(t, f.db.First(&req).Error)
		return &req
	}

	t.Run("creates consultation, ratings and settlement and consumes the request", func(t *testing.T) {
		f := newConsultationFixture(t)
		req := seedRequest(t, f)

		consultationID, err := f.svc.AcceptRequest(testConsultantID, req.ID, 2)
		require.NoError(t, err)
		require.Positive(t, consultationID)

		var count int64
		f.db.Model(&models.ConsultationRequest{}).Count(&count)
		assert.Equal(t, int64(0), count)

		var consultation models.Consultation
		require.NoError(t, f.db.First(&consultation, consultationID).Error)
		assert.Equal(t, testRequesterID, consultation.RequesterID)
		assert.True(t, consultation.MeetingAt.Equal(req.SecondCandidateDateTime))
		assert.NotEmpty(t, consultation.RoomName)

		var ur models.UserRating
		require.NoError(t, f.db.Where("consultation_id = ?", consultationID).First(&ur).Error)
		assert.Nil(t, ur.Rating)
		var cr models.ConsultantRating
		require.NoError(t, f.db.Where("consultation_id = ?", consultationID).First(&cr).Error)
		assert.Nil(t, cr.Rating)

		var s models.Settlement
		require.NoError(t, f.db.Where("consultation_id = ?", consultationID).First(&s).Error)
		assert.Equal(t, req.ChargeID, s.ChargeID)
		assert.Equal(t, int64(5000), s.FeePerHourInYen)
		assert.Equal(t, "30.0", s.PlatformFeeRateInPercentage)
		assert.True(t, s.CreditFacilitiesExpiredAt.Equal(req.CreatedAt.AddDate(0, 0, 7)))
	})

	t.Run("only the addressed consultant may accept", func(t *testing.T) {
		f := newConsultationFixture(t)
		req := seedRequest(t, f)

		_, err := f.svc.AcceptRequest(testRequesterID, req.ID, 1)
		assert.ErrorIs(t, err, errcode.NotConsultationParticipant)

		var count int64
		f.db.Model(&models.ConsultationRequest{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("missing request", func(t *testing.T) {
		f := newConsultationFixture(t)
		_, err := f.svc.AcceptRequest(testConsultantID, 999, 1)
		assert.ErrorIs(t, err, errcode.NoConsultationReqFound)
	})

	t.Run("picked candidate out of range", func(t *testing.T) {
		f := newConsultationFixture(t)
		_, err := f.svc.AcceptRequest(testConsultantID, 1, 0)
		assert.ErrorIs(t, err, errcode.InvalidPickedCandidate)
		_, err = f.svc.AcceptRequest(testConsultantID, 1, 4)
		assert.ErrorIs(t, err, errcode.InvalidPickedCandidate)
	})

	t.Run("request id not positive", func(t *testing.T) {
		f := newConsultationFixture(t)
		_, err := f.svc.AcceptRequest(testConsultantID, 0, 1)
		assert.ErrorIs(t, err, errcode.ConsultationReqIdIsNotPositive)
	})
}

func TestPruneExpiredRequests(t *testing.T) {
	base := time.Date(2023, 6, 10, 10, 0, 0, 0, time.UTC)
	f := newConsultationFixture(t)
	f.seedConsultant(t, 5000)
	f.svc.now = func() time.Time { return base }

	chargeID, err := f.svc.RequestConsultation(context.Background(), testRequesterID, testConsultantID, 5000, "tok_test", futureCandidates(base))
	require.NoError(t, err)

	// All candidates still ahead of the clock: nothing to prune.
	assert.Equal(t, 0, f.svc.PruneExpiredRequests(context.Background(), 100))

	// Move past the latest candidate.
	f.svc.now = func() time.Time { return base.Add(96 * time.Hour) }
	assert.Equal(t, 1, f.svc.PruneExpiredRequests(context.Background(), 100))

	var count int64
	f.db.Model(&models.ConsultationRequest{}).Count(&count)
	assert.Equal(t, int64(0), count)

	charge, err := f.gateway.Refund(context.Background(), chargeID)
	require.NoError(t, err)
	assert.True(t, charge.Refunded)
}
