package repository

import (
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"

	"gorm.io/gorm"
)

type UserAccountRepository struct {
	db *gorm.DB
}

func NewUserAccountRepository(db *gorm.DB) *UserAccountRepository {
	return &UserAccountRepository{db: db}
}

func (r *UserAccountRepository) GetByEmail(email string) (*models.UserAccount, error) {
	var u models.UserAccount
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserAccountRepository) GetByID(id int64) (*models.UserAccount, error) {
	var u models.UserAccount
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserAccountRepository) Create(u *models.UserAccount) error {
	return r.db.Create(u).Error
}
