package models

import (
	"time"

	"gorm.io/gorm"
)

// ConsultantProfile carries the consultant's currently configured hourly fee
// and the bank account the payout is transferred to. The bank fields are
// snapshotted into ReceiptOfConsultation at withdrawal completion so a later
// account change never rewrites history.
type ConsultantProfile struct {
	ID                int64          `gorm:"primaryKey" json:"id"`
	UserAccountID     int64          `gorm:"uniqueIndex;not null" json:"user_account_id"`
	FeePerHourInYen   int64          `gorm:"not null" json:"fee_per_hour_in_yen"`
	BankCode          string         `gorm:"size:4" json:"bank_code"`
	BranchCode        string         `gorm:"size:3" json:"branch_code"`
	AccountType       string         `gorm:"size:10" json:"account_type"` // ordinary | current
	AccountNumber     string         `gorm:"size:8" json:"account_number"`
	AccountHolderName string         `gorm:"size:255" json:"account_holder_name"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	UserAccount UserAccount `gorm:"foreignKey:UserAccountID" json:"-"`
}

func (ConsultantProfile) TableName() string {
	return "consultant_profiles"
}
