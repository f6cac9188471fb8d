package models

import "time"

// Settlement is the capture-pending state: the hold exists and automatic
// processing may capture it any time before CreditFacilitiesExpiredAt.
type Settlement struct {
	SettlementID                int64     `gorm:"primaryKey" json:"settlement_id"`
	ConsultationID              int64     `gorm:"uniqueIndex;not null" json:"consultation_id"`
	ChargeID                    string    `gorm:"size:64;not null" json:"charge_id"`
	FeePerHourInYen             int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	PlatformFeeRateInPercentage string    `gorm:"size:8;not null" json:"platform_fee_rate_in_percentage"`
	CreditFacilitiesExpiredAt   time.Time `gorm:"not null;index" json:"credit_facilities_expired_at"`
	CreatedAt                   time.Time `json:"created_at"`
}

func (Settlement) TableName() string {
	return "settlements"
}

// StoppedSettlement is a Settlement whose automatic processing has been
// halted. The row exists only while the halt is in effect; resuming moves it
// back into settlements.
type StoppedSettlement struct {
	StoppedSettlementID         int64     `gorm:"primaryKey" json:"stopped_settlement_id"`
	ConsultationID              int64     `gorm:"uniqueIndex;not null" json:"consultation_id"`
	ChargeID                    string    `gorm:"size:64;not null" json:"charge_id"`
	FeePerHourInYen             int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	PlatformFeeRateInPercentage string    `gorm:"size:8;not null" json:"platform_fee_rate_in_percentage"`
	CreditFacilitiesExpiredAt   time.Time `gorm:"not null;index" json:"credit_facilities_expired_at"`
	StoppedAt                   time.Time `gorm:"not null" json:"stopped_at"`
}

func (StoppedSettlement) TableName() string {
	return "stopped_settlements"
}
