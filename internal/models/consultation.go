package models

import "time"

// Consultation is created on acceptance and never deleted. MeetingAt is
// immutable once set; only the entered-at stamps are updated afterwards.
type Consultation struct {
	ConsultationID      int64      `gorm:"primaryKey" json:"consultation_id"`
	RequesterID         int64      `gorm:"not null;index" json:"requester_id"`
	ConsultantID        int64      `gorm:"not null;index" json:"consultant_id"`
	MeetingAt           time.Time  `gorm:"not null" json:"meeting_at"`
	RoomName            string     `gorm:"size:64;not null" json:"room_name"`
	RequesterEnteredAt  *time.Time `json:"requester_entered_at"`
	ConsultantEnteredAt *time.Time `json:"consultant_entered_at"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (Consultation) TableName() string {
	return "consultations"
}
