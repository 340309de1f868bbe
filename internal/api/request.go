package api

// ContactRequest is the payload posted by the marketing site's contact form.
type ContactRequest struct {
	Name              string `json:"name" example:"Jane van der Berg"`
	Email             string `json:"email" example:"jane@example.com"`
	Phone             string `json:"phone,omitempty" example:"+1 555 0100"`
	Address           string `json:"address,omitempty" example:"123 Main St, Springfield, IL 62704"`
	ContactPreference string `json:"contactPreference,omitempty" example:"email"`
	AdditionalInfo    string `json:"additionalInfo,omitempty"`
}

// NewsletterRequest is the payload posted by the newsletter signup form.
type NewsletterRequest struct {
	Name      string   `json:"name" example:"Jane van der Berg"`
	Email     string   `json:"email" example:"jane@example.com"`
	Interests []string `json:"interests,omitempty"`
	Source    string   `json:"source,omitempty" example:"footer-banner"`
}
