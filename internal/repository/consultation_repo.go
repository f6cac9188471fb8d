package repository

import (
	"time"

	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"

	"gorm.io/gorm"
)

type ConsultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

func (r *ConsultationRepository) Create(tx *gorm.DB, c *models.Consultation) error {
	return tx.Create(c).Error
}

func (r *ConsultationRepository) GetByID(id int64) (*models.Consultation, error) {
	var c models.Consultation
	err := r.db.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkRequesterEntered stamps the first time the requester joined the room;
// later joins leave the stamp untouched.
func (r *ConsultationRepository) MarkRequesterEntered(id int64, at time.Time) error {
	return r.db.Model(&models.Consultation{}).
		Where("consultation_id = ? AND requester_entered_at IS NULL", id).
		Update("requester_entered_at", at).Error
}

func (r *ConsultationRepository) MarkConsultantEntered(id int64, at time.Time) error {
	return r.db.Model(&models.Consultation{}).
		Where("consultation_id = ? AND consultant_entered_at IS NULL", id).
		Update("consultant_entered_at", at).Error
}
