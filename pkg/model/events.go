package model

import "time"

// SubmissionEvent is published after every CRM submission attempt.
type SubmissionEvent struct {
	SubmissionID string    `json:"submission_id"`
	Kind         string    `json:"kind"`
	Email        string    `json:"email"`
	Success      bool      `json:"success"`
	ClientID     string    `json:"client_id,omitempty"`
	Errors       []string  `json:"errors,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
