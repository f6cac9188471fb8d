package repository

import (
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"

	"gorm.io/gorm"
)

type ConsultantRepository struct {
	db *gorm.DB
}

func NewConsultantRepository(db *gorm.DB) *ConsultantRepository {
	return &ConsultantRepository{db: db}
}

func (r *ConsultantRepository) GetByUserAccountID(userAccountID int64) (*models.ConsultantProfile, error) {
	var p models.ConsultantProfile
	err := r.db.Where("user_account_id = ?", userAccountID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ConsultantRepository) Create(p *models.ConsultantProfile) error {
	return r.db.Create(p).Error
}
