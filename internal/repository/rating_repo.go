package repository

import (
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"

	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// CreateEmptyPair inserts the nullable rating rows for a new consultation.
func (r *RatingRepository) CreateEmptyPair(tx *gorm.DB, consultationID int64) error {
	if err := tx.Create(&models.UserRating{ConsultationID: consultationID}).Error; err != nil {
		return err
	}
	return tx.Create(&models.ConsultantRating{ConsultationID: consultationID}).Error
}

// LockUserRating loads the row by (rating_id, consultation_id) under an
// exclusive lock; the id pair must match a single row.
func (r *RatingRepository) LockUserRating(tx *gorm.DB, ratingID, consultationID int64) (*models.UserRating, error) {
	var ur models.UserRating
	err := forUpdate(tx).
		Where("rating_id = ? AND consultation_id = ?", ratingID, consultationID).
		First(&ur).Error
	if err != nil {
		return nil, err
	}
	return &ur, nil
}

func (r *RatingRepository) LockConsultantRating(tx *gorm.DB, ratingID, consultationID int64) (*models.ConsultantRating, error) {
	var cr models.ConsultantRating
	err := forUpdate(tx).
		Where("rating_id = ? AND consultation_id = ?", ratingID, consultationID).
		First(&cr).Error
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

func (r *RatingRepository) SaveUserRating(tx *gorm.DB, ur *models.UserRating) error {
	return tx.Save(ur).Error
}

func (r *RatingRepository) SaveConsultantRating(tx *gorm.DB, cr *models.ConsultantRating) error {
	return tx.Save(cr).Error
}

// Display reads for the admin surface.

func (r *RatingRepository) FindUserRatingByConsultationID(consultationID int64) (*models.UserRating, error) {
	var rows []models.UserRating
	if err := r.db.Where("consultation_id = ?", consultationID).Limit(2).Find(&rows).Error; err != nil {
		return nil, err
	}
	found, err := findAtMostOne(int64(len(rows)))
	if err != nil || !found {
		return nil, err
	}
	return &rows[0], nil
}

func (r *RatingRepository) FindConsultantRatingByConsultationID(consultationID int64) (*models.ConsultantRating, error) {
	var rows []models.ConsultantRating
	if err := r.db.Where("consultation_id = ?", consultationID).Limit(2).Find(&rows).Error; err != nil {
		return nil, err
	}
	found, err := findAtMostOne(int64(len(rows)))
	if err != nil || !found {
		return nil, err
	}
	return &rows[0], nil
}

// BothSubmitted reports whether the two ratings for the consultation are in.
// Capture eligibility in the settlement batch depends on it.
func (r *RatingRepository) BothSubmitted(consultationID int64) (bool, error) {
	var ur models.UserRating
	if err := r.db.Where("consultation_id = ?", consultationID).First(&ur).Error; err != nil {
		return false, err
	}
	var cr models.ConsultantRating
	if err := r.db.Where("consultation_id = ?", consultationID).First(&cr).Error; err != nil {
		return false, err
	}
	return ur.Rating != nil && cr.Rating != nil, nil
}
