package repository

import (
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"

	"gorm.io/gorm"
)

// ReceiptRepository owns the Receipt/Refund side projections. The at-most-one
// row contract is enforced at read time; see ErrDuplicateRows.
type ReceiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

func (r *ReceiptRepository) CreateReceipt(tx *gorm.DB, rec *models.Receipt) error {
	return tx.Create(rec).Error
}

func (r *ReceiptRepository) CreateRefund(tx *gorm.DB, ref *models.Refund) error {
	return tx.Create(ref).Error
}

func (r *ReceiptRepository) FindReceiptByConsultationID(consultationID int64) (*models.Receipt, error) {
	var rows []models.Receipt
	if err := r.db.Where("consultation_id = ?", consultationID).Limit(2).Find(&rows).Error; err != nil {
		return nil, err
	}
	found, err := findAtMostOne(int64(len(rows)))
	if err != nil || !found {
		return nil, err
	}
	return &rows[0], nil
}

func (r *ReceiptRepository) FindRefundByConsultationID(consultationID int64) (*models.Refund, error) {
	var rows []models.Refund
	if err := r.db.Where("consultation_id = ?", consultationID).Limit(2).Find(&rows).Error; err != nil {
		return nil, err
	}
	found, err := findAtMostOne(int64(len(rows)))
	if err != nil || !found {
		return nil, err
	}
	return &rows[0], nil
}
