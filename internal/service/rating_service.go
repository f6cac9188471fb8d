package service

import (
	"errors"
	"time"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/domain"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/errcode"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/repository"

	"gorm.io/gorm"
)

// RatingService enforces the one-shot, time-gated bilateral rating. Ratings
// open strictly after the meeting end; each side rates exactly once.
type RatingService struct {
	cfg              config.SettlementConfig
	ratingRepo       *repository.RatingRepository
	consultationRepo *repository.ConsultationRepository
	now              func() time.Time
}

func NewRatingService(
	cfg config.SettlementConfig,
	ratingRepo *repository.RatingRepository,
	consultationRepo *repository.ConsultationRepository,
) *RatingService {
	return &RatingService{
		cfg:              cfg,
		ratingRepo:       ratingRepo,
		consultationRepo: consultationRepo,
		now:              time.Now,
	}
}

// SubmitUserRating records the consultant's rating of the requester.
func (s *RatingService) SubmitUserRating(callerID, ratingID, consultationID int64, rating int) error {
	if err := validateRatingInput(ratingID, consultationID, rating); err != nil {
		return err
	}
	return s.ratingRepo.Transaction(func(tx *gorm.DB) error {
		ur, err := s.ratingRepo.LockUserRating(tx, ratingID, consultationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoRatingFound
			}
			return err
		}
		if ur.Rating != nil {
			return errcode.UserAccountHasAlreadyBeenRated
		}
		if err := s.checkEligibility(consultationID, callerID, domain.RoleConsultant); err != nil {
			return err
		}
		v := int16(rating)
		at := s.now()
		ur.Rating = &v
		ur.RatedAt = &at
		return s.ratingRepo.SaveUserRating(tx, ur)
	})
}

// SubmitConsultantRating records the requester's rating of the consultant.
func (s *RatingService) SubmitConsultantRating(callerID, ratingID, consultationID int64, rating int) error {
	if err := validateRatingInput(ratingID, consultationID, rating); err != nil {
		return err
	}
	return s.ratingRepo.Transaction(func(tx *gorm.DB) error {
		cr, err := s.ratingRepo.LockConsultantRating(tx, ratingID, consultationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errcode.NoRatingFound
			}
			return err
		}
		if cr.Rating != nil {
			return errcode.ConsultantAccountHasAlreadyBeenRated
		}
		if err := s.checkEligibility(consultationID, callerID, domain.RoleUser); err != nil {
			return err
		}
		v := int16(rating)
		at := s.now()
		cr.Rating = &v
		cr.RatedAt = &at
		return s.ratingRepo.SaveConsultantRating(tx, cr)
	})
}

func validateRatingInput(ratingID, consultationID int64, rating int) error {
	if ratingID <= 0 {
		return errcode.RatingIdIsNotPositive
	}
	if consultationID <= 0 {
		return errcode.ConsultationIdIsNotPositive
	}
	if rating < domain.MinRating || rating > domain.MaxRating {
		return errcode.InvalidRating
	}
	return nil
}

// checkEligibility confirms the caller belongs to the consultation and that
// the meeting has ended. The end is exclusive: at exactly
// meeting_at + MeetingLengthMinutes the rating is still closed.
func (s *RatingService) checkEligibility(consultationID, callerID int64, callerRole string) error {
	c, err := s.consultationRepo.GetByID(consultationID)
	if err != nil {
		// The rating row references the consultation, so a missing row is an
		// integrity problem, not a caller mistake.
		return err
	}
	switch callerRole {
	case domain.RoleConsultant:
		if c.ConsultantID != callerID {
			return errcode.NotConsultationParticipant
		}
	case domain.RoleUser:
		if c.RequesterID != callerID {
			return errcode.NotConsultationParticipant
		}
	}
	end := c.MeetingAt.Add(time.Duration(s.cfg.MeetingLengthMinutes) * time.Minute)
	if !s.now().After(end) {
		return errcode.EndOfConsultationDateTimeHasNotPassedYet
	}
	return nil
}
