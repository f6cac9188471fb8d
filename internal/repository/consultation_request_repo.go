package repository

import (
	"time"

	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"

	"gorm.io/gorm"
)

type ConsultationRequestRepository struct {
	db *gorm.DB
}

func NewConsultationRequestRepository(db *gorm.DB) *ConsultationRequestRepository {
	return &ConsultationRequestRepository{db: db}
}

func (r *ConsultationRequestRepository) Create(req *models.ConsultationRequest) error {
	return r.db.Create(req).Error
}

// LockByID loads the request under an exclusive lock inside tx.
func (r *ConsultationRequestRepository) LockByID(tx *gorm.DB, id int64) (*models.ConsultationRequest, error) {
	var req models.ConsultationRequest
	err := forUpdate(tx).First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ConsultationRequestRepository) DeleteByID(tx *gorm.DB, id int64) error {
	return tx.Delete(&models.ConsultationRequest{}, id).Error
}

// ListExpired returns requests whose latest candidate has passed, oldest
// first, bounded by limit. The batch worker prunes them and refunds the hold.
func (r *ConsultationRequestRepository) ListExpired(before time.Time, limit int) ([]models.ConsultationRequest, error) {
	var reqs []models.ConsultationRequest
	err := r.db.
		Where("latest_candidate_date_time < ?", before).
		Order("latest_candidate_date_time asc").
		Limit(limit).
		Find(&reqs).Error
	return reqs, err
}
