package models

import "time"

// Receipt is a side projection written when a capture succeeds. At most one
// row may exist per consultation; there is deliberately no unique index so a
// violation surfaces as a read-time integrity error instead of a silent
// insert failure in the middle of a move.
type Receipt struct {
	ReceiptID                   int64     `gorm:"primaryKey" json:"receipt_id"`
	ConsultationID              int64     `gorm:"not null;index" json:"consultation_id"`
	ChargeID                    string    `gorm:"size:64;not null" json:"charge_id"`
	FeePerHourInYen             int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	PlatformFeeRateInPercentage string    `gorm:"size:8;not null" json:"platform_fee_rate_in_percentage"`
	SettledAt                   time.Time `gorm:"not null" json:"settled_at"`
}

func (Receipt) TableName() string {
	return "receipts"
}

// Refund is the mirror projection written when money goes back to the
// requester. Same single-row-per-consultation contract as Receipt.
type Refund struct {
	RefundID                    int64     `gorm:"primaryKey" json:"refund_id"`
	ConsultationID              int64     `gorm:"not null;index" json:"consultation_id"`
	ChargeID                    string    `gorm:"size:64;not null" json:"charge_id"`
	FeePerHourInYen             int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	PlatformFeeRateInPercentage string    `gorm:"size:8;not null" json:"platform_fee_rate_in_percentage"`
	RefundedAt                  time.Time `gorm:"not null" json:"refunded_at"`
}

func (Refund) TableName() string {
	return "refunds"
}
