package model

import "time"

// ContactSubmission is a raw contact form submission from the marketing site.
// Fields are user-entered free text; the adapter maps them into Jobber's
// client shape without validation beyond the API boundary checks.
type ContactSubmission struct {
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	Address           string    `json:"address,omitempty"`
	ContactPreference string    `json:"contact_preference,omitempty"`
	AdditionalInfo    string    `json:"additional_info,omitempty"`
	SubmittedAt       time.Time `json:"submitted_at"`
}

// NewsletterSubmission is a newsletter sign-up from the marketing site.
type NewsletterSubmission struct {
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email"`
	Interests   []string  `json:"interests,omitempty"`
	Source      string    `json:"source,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// CrmClient is the client record created in Jobber.
type CrmClient struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
}

// SubmissionResult is the single normalized outcome returned to every caller,
// regardless of which layer produced the failure (transport, GraphQL protocol,
// or Jobber business validation). Success is true iff Client is present and
// Errors is empty.
type SubmissionResult struct {
	Success bool       `json:"success"`
	Client  *CrmClient `json:"client,omitempty"`
	Errors  []string   `json:"errors,omitempty"`
}

// Failure builds a failed SubmissionResult from error messages.
func Failure(messages ...string) SubmissionResult {
	return SubmissionResult{Success: false, Errors: messages}
}

// SubmissionRecord is the audit row persisted for every submission attempt.
type SubmissionRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // "contact" | "newsletter"
	Email     string    `json:"email"`
	Success   bool      `json:"success"`
	ClientID  string    `json:"client_id,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscriber is a newsletter subscriber row.
type Subscriber struct {
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Interests    []string  `json:"interests,omitempty"`
	Source       string    `json:"source,omitempty"`
	SubscribedAt time.Time `json:"subscribed_at"`
}
