package models

import "time"

// ConsultationRequest is the pre-acceptance state: the requester has picked
// three candidate meeting times and an authorization hold exists on their card.
// The row is consumed on acceptance or pruned once every candidate has passed.
type ConsultationRequest struct {
	ID                      int64     `gorm:"primaryKey" json:"consultation_req_id"`
	RequesterID             int64     `gorm:"not null;index" json:"requester_id"`
	ConsultantID            int64     `gorm:"not null;index" json:"consultant_id"`
	FeePerHourInYen         int64     `gorm:"not null" json:"fee_per_hour_in_yen"`
	FirstCandidateDateTime  time.Time `gorm:"not null" json:"first_candidate_date_time"`
	SecondCandidateDateTime time.Time `gorm:"not null" json:"second_candidate_date_time"`
	ThirdCandidateDateTime  time.Time `gorm:"not null" json:"third_candidate_date_time"`
	ChargeID                string    `gorm:"size:64;not null" json:"charge_id"`
	// LatestCandidateDateTime is the max of the three candidates; pruning and
	// admin listing queries are bounded by it.
	LatestCandidateDateTime time.Time `gorm:"not null;index" json:"latest_candidate_date_time"`
	CreatedAt               time.Time `json:"created_at"`
}

func (ConsultationRequest) TableName() string {
	return "consultation_requests"
}
