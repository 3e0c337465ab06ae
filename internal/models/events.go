package models

import "time"

// CleanupEvent is a scheduled beach cleanup.
type CleanupEvent struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Beach        string    `json:"beach"`
	Region       string    `json:"region"`
	MeetingPoint string    `json:"meetingPoint"`
	Date         time.Time `json:"date"`
}

// CrewSignup is one accepted join-form submission.
type CrewSignup struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
	EventID  string    `json:"eventId"`
	JoinedAt time.Time `json:"joinedAt"`
}
