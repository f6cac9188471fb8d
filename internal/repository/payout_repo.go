package repository

import (
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"

	"gorm.io/gorm"
)

// PayoutRepository owns the post-capture tables: awaiting_payments,
// awaiting_withdrawals and the four terminal tables. Moves follow the same
// lock-insert-delete discipline as SettlementRepository.
type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *PayoutRepository) CreateAwaitingPayment(tx *gorm.DB, ap *models.AwaitingPayment) error {
	return tx.Create(ap).Error
}

func (r *PayoutRepository) LockAwaitingPayment(tx *gorm.DB, consultationID int64) (*models.AwaitingPayment, error) {
	var ap models.AwaitingPayment
	err := forUpdate(tx).Where("consultation_id = ?", consultationID).First(&ap).Error
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *PayoutRepository) DeleteAwaitingPayment(tx *gorm.DB, consultationID int64) error {
	return tx.Where("consultation_id = ?", consultationID).Delete(&models.AwaitingPayment{}).Error
}

func (r *PayoutRepository) CreateAwaitingWithdrawal(tx *gorm.DB, aw *models.AwaitingWithdrawal) error {
	return tx.Create(aw).Error
}

func (r *PayoutRepository) LockAwaitingWithdrawal(tx *gorm.DB, consultationID int64) (*models.AwaitingWithdrawal, error) {
	var aw models.AwaitingWithdrawal
	err := forUpdate(tx).Where("consultation_id = ?", consultationID).First(&aw).Error
	if err != nil {
		return nil, err
	}
	return &aw, nil
}

func (r *PayoutRepository) DeleteAwaitingWithdrawal(tx *gorm.DB, consultationID int64) error {
	return tx.Where("consultation_id = ?", consultationID).Delete(&models.AwaitingWithdrawal{}).Error
}

func (r *PayoutRepository) CreateReceiptOfConsultation(tx *gorm.DB, rc *models.ReceiptOfConsultation) error {
	return tx.Create(rc).Error
}

func (r *PayoutRepository) CreateLeftAwaitingWithdrawal(tx *gorm.DB, l *models.LeftAwaitingWithdrawal) error {
	return tx.Create(l).Error
}

func (r *PayoutRepository) CreateNeglectedPayment(tx *gorm.DB, n *models.NeglectedPayment) error {
	return tx.Create(n).Error
}

func (r *PayoutRepository) CreateRefundedPayment(tx *gorm.DB, rp *models.RefundedPayment) error {
	return tx.Create(rp).Error
}

// Display reads.

// ListAwaitingPayments pages over awaiting payments in ascending arrival
// order. Page is zero-based.
func (r *PayoutRepository) ListAwaitingPayments(page, perPage int) ([]models.AwaitingPayment, error) {
	var rows []models.AwaitingPayment
	err := r.db.
		Order("created_at asc").
		Offset(page * perPage).
		Limit(perPage).
		Find(&rows).Error
	return rows, err
}

func (r *PayoutRepository) FindAwaitingPayment(consultationID int64) (*models.AwaitingPayment, error) {
	var ap models.AwaitingPayment
	err := r.db.Where("consultation_id = ?", consultationID).First(&ap).Error
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *PayoutRepository) FindAwaitingWithdrawal(consultationID int64) (*models.AwaitingWithdrawal, error) {
	var aw models.AwaitingWithdrawal
	err := r.db.Where("consultation_id = ?", consultationID).First(&aw).Error
	if err != nil {
		return nil, err
	}
	return &aw, nil
}

func (r *PayoutRepository) FindLeftAwaitingWithdrawal(consultationID int64) (*models.LeftAwaitingWithdrawal, error) {
	var l models.LeftAwaitingWithdrawal
	err := r.db.Where("consultation_id = ?", consultationID).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PayoutRepository) FindNeglectedPayment(consultationID int64) (*models.NeglectedPayment, error) {
	var n models.NeglectedPayment
	err := r.db.Where("consultation_id = ?", consultationID).First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PayoutRepository) FindRefundedPayment(consultationID int64) (*models.RefundedPayment, error) {
	var rp models.RefundedPayment
	err := r.db.Where("consultation_id = ?", consultationID).First(&rp).Error
	if err != nil {
		return nil, err
	}
	return &rp, nil
}

func (r *PayoutRepository) FindReceiptOfConsultation(consultationID int64) (*models.ReceiptOfConsultation, error) {
	var rc models.ReceiptOfConsultation
	err := r.db.Where("consultation_id = ?", consultationID).First(&rc).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// FindLatestReceiptOfConsultationByConsultant returns the consultant's most
// recent payout record.
func (r *PayoutRepository) FindLatestReceiptOfConsultationByConsultant(consultantID int64) (*models.ReceiptOfConsultation, error) {
	var rc models.ReceiptOfConsultation
	err := r.db.
		Where("consultant_id = ?", consultantID).
		Order("created_at desc").
		First(&rc).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}
