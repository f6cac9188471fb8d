package models

import "time"

// ReceiptOfConsultation is the success terminal: the payout reached the
// consultant's bank account. The bank fields are a snapshot taken at
// withdrawal completion.
type ReceiptOfConsultation struct {
	ConsultationID              int64     `gorm:"primaryKey" json:"consultation_id"`
	RequesterID                 int64     `gorm:"not null;index" json:"requester_id"`
	ConsultantID                int64     `gorm:"not null;index" json:"consultant_id"`
	MeetingAt                   time.Time `gorm:"not null" json:"meeting_at"`
	FeePerHourInYen             int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	PlatformFeeRateInPercentage string    `gorm:"size:8;not null" json:"platform_fee_rate_in_percentage"`
	BankCode                    string    `gorm:"size:4;not null" json:"bank_code"`
	BranchCode                  string    `gorm:"size:3;not null" json:"branch_code"`
	AccountType                 string    `gorm:"size:10;not null" json:"account_type"`
	AccountNumber               string    `gorm:"size:8;not null" json:"account_number"`
	AccountHolderName           string    `gorm:"size:255;not null" json:"account_holder_name"`
	TransferFeeInYen            int64     `gorm:"not null" json:"transfer_fee_in_yen"`
	RewardInYen                 int64     `gorm:"not null" json:"reward_in_yen"`
	WithdrawalConfirmedBy       string    `gorm:"size:255;not null" json:"withdrawal_confirmed_by"`
	CreatedAt                   time.Time `gorm:"not null" json:"created_at"`
}

func (ReceiptOfConsultation) TableName() string {
	return "receipts_of_consultation"
}

// LeftAwaitingWithdrawal is the abandoned terminal: nobody was harmed, the
// case is simply closed without a payout.
type LeftAwaitingWithdrawal struct {
	ConsultationID              int64     `gorm:"primaryKey" json:"consultation_id"`
	RequesterID                 int64     `gorm:"not null;index" json:"requester_id"`
	ConsultantID                int64     `gorm:"not null;index" json:"consultant_id"`
	MeetingAt                   time.Time `gorm:"not null" json:"meeting_at"`
	FeePerHourInYen             int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	PlatformFeeRateInPercentage string    `gorm:"size:8;not null" json:"platform_fee_rate_in_percentage"`
	ConfirmedBy                 string    `gorm:"size:255;not null" json:"confirmed_by"`
	CreatedAt                   time.Time `gorm:"not null" json:"created_at"`
}

func (LeftAwaitingWithdrawal) TableName() string {
	return "left_awaiting_withdrawals"
}

// NeglectedPayment is the compliance-flag terminal: the payout window was
// missed and an operator recorded the neglect.
type NeglectedPayment struct {
	ConsultationID              int64     `gorm:"primaryKey" json:"consultation_id"`
	RequesterID                 int64     `gorm:"not null;index" json:"requester_id"`
	ConsultantID                int64     `gorm:"not null;index" json:"consultant_id"`
	MeetingAt                   time.Time `gorm:"not null" json:"meeting_at"`
	FeePerHourInYen             int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	PlatformFeeRateInPercentage string    `gorm:"size:8;not null" json:"platform_fee_rate_in_percentage"`
	NeglectConfirmedBy          string    `gorm:"size:255;not null" json:"neglect_confirmed_by"`
	CreatedAt                   time.Time `gorm:"not null" json:"created_at"`
}

func (NeglectedPayment) TableName() string {
	return "neglected_payments"
}

// RefundedPayment is the money-returned terminal, reached either from a failed
// or expired capture or from a dispute decided against the consultant.
type RefundedPayment struct {
	ConsultationID              int64     `gorm:"primaryKey" json:"consultation_id"`
	RequesterID                 int64     `gorm:"not null;index" json:"requester_id"`
	ConsultantID                int64     `gorm:"not null;index" json:"consultant_id"`
	MeetingAt                   time.Time `gorm:"not null" json:"meeting_at"`
	FeePerHourInYen             int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	PlatformFeeRateInPercentage string    `gorm:"size:8;not null" json:"platform_fee_rate_in_percentage"`
	TransferFeeInYen            int64     `gorm:"not null" json:"transfer_fee_in_yen"`
	Reason                      string    `gorm:"size:255;not null" json:"reason"`
	RefundConfirmedBy           string    `gorm:"size:255;not null" json:"refund_confirmed_by"`
	CreatedAt                   time.Time `gorm:"not null" json:"created_at"`
}

func (RefundedPayment) TableName() string {
	return "refunded_payments"
}
