package model

import "time"

const RoleAdmin = "admin"

type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Cob is one logged close-of-business shift. Date and times are kept as the
// display strings the client sent (DD/MM/YYYY, HH:MM).
type Cob struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	DurationText string    `json:"durationText"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CobInput is the client-writable part of a Cob.
type CobInput struct {
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	DurationText string `json:"durationText"`
}
