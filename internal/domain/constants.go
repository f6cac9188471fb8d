package domain

const (
	RoleAdmin      = "ADMIN"
	RoleUser       = "USER"
	RoleConsultant = "CONSULTANT"
)

const (
	MinRating = 1
	MaxRating = 5
)
