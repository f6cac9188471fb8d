package repository

import (
	"time"

	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"

	"gorm.io/gorm"
)

// SettlementRepository owns the settlements and stopped_settlements tables.
// Every state transition is a move: lock the source row FOR UPDATE, insert the
// destination, delete the source, all inside one transaction supplied by the
// caller. A move that finds the source gone reports gorm.ErrRecordNotFound,
// which makes transitions exactly-once under concurrent callers.
type SettlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

func (r *SettlementRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *SettlementRepository) Create(tx *gorm.DB, s *models.Settlement) error {
	return tx.Create(s).Error
}

func (r *SettlementRepository) LockByConsultationID(tx *gorm.DB, consultationID int64) (*models.Settlement, error) {
	var s models.Settlement
	err := forUpdate(tx).Where("consultation_id = ?", consultationID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettlementRepository) DeleteBySettlementID(tx *gorm.DB, settlementID int64) error {
	return tx.Delete(&models.Settlement{}, settlementID).Error
}

func (r *SettlementRepository) CreateStopped(tx *gorm.DB, s *models.StoppedSettlement) error {
	return tx.Create(s).Error
}

func (r *SettlementRepository) LockStoppedByID(tx *gorm.DB, stoppedSettlementID int64) (*models.StoppedSettlement, error) {
	var s models.StoppedSettlement
	err := forUpdate(tx).First(&s, stoppedSettlementID).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettlementRepository) DeleteStoppedByID(tx *gorm.DB, stoppedSettlementID int64) error {
	return tx.Delete(&models.StoppedSettlement{}, stoppedSettlementID).Error
}

// FindByConsultationID is a display read. More than one row violates the
// uniqueness invariant and is reported, never resolved silently.
func (r *SettlementRepository) FindByConsultationID(consultationID int64) (*models.Settlement, error) {
	var rows []models.Settlement
	if err := r.db.Where("consultation_id = ?", consultationID).Limit(2).Find(&rows).Error; err != nil {
		return nil, err
	}
	found, err := findAtMostOne(int64(len(rows)))
	if err != nil || !found {
		return nil, err
	}
	return &rows[0], nil
}

// ListDueForCapture returns settlements whose meeting has ended and whose hold
// is still capturable at now, oldest hold first.
func (r *SettlementRepository) ListDueForCapture(now time.Time, meetingLength time.Duration, limit int) ([]models.Settlement, error) {
	var rows []models.Settlement
	err := r.db.
		Joins("JOIN consultations ON consultations.consultation_id = settlements.consultation_id").
		Where("consultations.meeting_at <= ?", now.Add(-meetingLength)).
		Where("settlements.credit_facilities_expired_at >= ?", now).
		Order("settlements.credit_facilities_expired_at asc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ListExpired returns settlements whose hold has lapsed; only a refund is
// possible for them.
func (r *SettlementRepository) ListExpired(now time.Time, limit int) ([]models.Settlement, error) {
	var rows []models.Settlement
	err := r.db.
		Where("credit_facilities_expired_at < ?", now).
		Order("credit_facilities_expired_at asc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
