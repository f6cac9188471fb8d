package models

import "time"

// AwaitingPayment exists only after a successful capture: the money is on the
// platform side and the consultant's payout has not been arranged yet.
type AwaitingPayment struct {
	ConsultationID              int64     `gorm:"primaryKey" json:"consultation_id"`
	RequesterID                 int64     `gorm:"not null;index" json:"requester_id"`
	ConsultantID                int64     `gorm:"not null;index" json:"consultant_id"`
	MeetingAt                   time.Time `gorm:"not null" json:"meeting_at"`
	FeePerHourInYen             int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	PlatformFeeRateInPercentage string    `gorm:"size:8;not null" json:"platform_fee_rate_in_percentage"`
	ChargeID                    string    `gorm:"size:64;not null" json:"charge_id"`
	SenderName                  string    `gorm:"size:255" json:"sender_name"`
	CreatedAt                   time.Time `gorm:"not null;index" json:"created_at"`
}

func (AwaitingPayment) TableName() string {
	return "awaiting_payments"
}

// AwaitingWithdrawal records that an admin confirmed the transfer arrangement.
// PaymentConfirmedBy is the confirming admin's email and is never empty.
type AwaitingWithdrawal struct {
	ConsultationID              int64     `gorm:"primaryKey" json:"consultation_id"`
	RequesterID                 int64     `gorm:"not null;index" json:"requester_id"`
	ConsultantID                int64     `gorm:"not null;index" json:"consultant_id"`
	MeetingAt                   time.Time `gorm:"not null" json:"meeting_at"`
	FeePerHourInYen             int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	PlatformFeeRateInPercentage string    `gorm:"size:8;not null" json:"platform_fee_rate_in_percentage"`
	ChargeID                    string    `gorm:"size:64;not null" json:"charge_id"`
	SenderName                  string    `gorm:"size:255" json:"sender_name"`
	PaymentConfirmedBy          string    `gorm:"size:255;not null" json:"payment_confirmed_by"`
	CreatedAt                   time.Time `gorm:"not null" json:"created_at"`
}

func (AwaitingWithdrawal) TableName() string {
	return "awaiting_withdrawals"
}
