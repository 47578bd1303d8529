package entity

import (
	"errors"
	"time"
)

var ErrMeetingNotFound = errors.New("meeting not found")

// Meeting is a scheduled Teams-style meeting tied to the legal-recording
// workflow. Join URLs are placeholders until a Graph API integration exists.
type Meeting struct {
	ID               string    `json:"id"`
	Subject          string    `json:"subject"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Attendees        []string  `json:"attendees"`
	MatterCode       string    `json:"matter_code,omitempty"`
	Description      string    `json:"description,omitempty"`
	JoinURL          string    `json:"join_url"`
	OrganizerURL     string    `json:"organizer_url"`
	CalendarUID      string    `json:"calendar_uid"`
	RecordingEnabled bool      `json:"recording_enabled"`
	SessionID        string    `json:"session_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	Status           string    `json:"status"`
}

type CreateMeetingRequest struct {
	Subject     string
	StartTime   time.Time
	EndTime     time.Time
	Attendees   []string
	MatterCode  string
	Description string
}
