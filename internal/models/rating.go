package models

import "time"

// UserRating is the consultant's rating of the requester. The row is created
// with a null rating alongside the Consultation and written exactly once.
type UserRating struct {
	RatingID       int64      `gorm:"primaryKey" json:"rating_id"`
	ConsultationID int64      `gorm:"uniqueIndex;not null" json:"consultation_id"`
	Rating         *int16     `json:"rating"`
	RatedAt        *time.Time `json:"rated_at"`
}

func (UserRating) TableName() string {
	return "user_ratings"
}

// ConsultantRating is the requester's rating of the consultant.
type ConsultantRating struct {
	RatingID       int64      `gorm:"primaryKey" json:"rating_id"`
	ConsultationID int64      `gorm:"uniqueIndex;not null" json:"consultation_id"`
	Rating         *int16     `json:"rating"`
	RatedAt        *time.Time `json:"rated_at"`
}

func (ConsultantRating) TableName() string {
	return "consultant_ratings"
}
