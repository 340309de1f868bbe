package jobber

import (
	"strings"
	"time"

	"github.com/fieldlink/jobber-adapter/pkg/model"
)

// leadSourceNote is appended to every composed note so CRM users can tell
// website leads from manually entered clients.
const leadSourceNote = "Lead source: marketing website"

// submittedAtLayout is the human-readable timestamp shown in CRM notes.
const submittedAtLayout = "January 2, 2006 at 3:04 PM MST"

//
// ────────────────────────────────────────────────
//   Mapper – form submissions → Jobber inputs
// ────────────────────────────────────────────────
//

// Mapper translates form submissions into Jobber's client-creation shapes.
// The mapping is deterministic and deliberately lenient: free-text fields
// that do not parse yield absent values, never errors.
type Mapper struct{}

// NewMapper constructs a Mapper instance.
func NewMapper() *Mapper { return &Mapper{} }

// SplitName splits a full name on whitespace: the first token is the first
// name, the remainder joined with spaces is the last name. A single-word name
// yields a nil last name — absent, not empty. Jobber treats those differently.
func (m *Mapper) SplitName(full string) (string, *string) {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "", nil
	}
	if len(fields) == 1 {
		return fields[0], nil
	}
	last := strings.Join(fields[1:], " ")
	return fields[0], &last
}

// ParseAddress splits a free-text address on commas into up to three logical
// parts: street, city, and a combined "state zip" token, which is further
// split on whitespace. Anything that does not fit stays absent. The address
// field is free text, so this cannot be stricter without a product decision.
func (m *Mapper) ParseAddress(raw string) *AddressInput {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	addr := &AddressInput{}

	if s := strings.TrimSpace(parts[0]); s != "" {
		addr.Street1 = &s
	}
	if len(parts) > 1 {
		if s := strings.TrimSpace(parts[1]); s != "" {
			addr.City = &s
		}
	}
	if len(parts) > 2 {
		pieces := strings.Fields(parts[2])
		if len(pieces) > 0 {
			addr.Province = &pieces[0]
		}
		if len(pieces) > 1 {
			addr.PostalCode = &pieces[1]
		}
	}
	return addr
}

// ContactNotes composes the note text for a contact form submission. Blocks
// appear in fixed order, separated by blank lines; empty optional blocks are
// omitted entirely.
func (m *Mapper) ContactNotes(s model.ContactSubmission) string {
	var blocks []string
	if s.ContactPreference != "" {
		blocks = append(blocks, "Preferred contact method: "+s.ContactPreference)
	}
	if s.AdditionalInfo != "" {
		blocks = append(blocks, s.AdditionalInfo)
	}
	blocks = append(blocks, leadSourceNote)
	blocks = append(blocks, "Submitted: "+submittedAt(s.SubmittedAt))
	return strings.Join(blocks, "\n\n")
}

// NewsletterNotes composes the note text for a newsletter sign-up.
func (m *Mapper) NewsletterNotes(s model.NewsletterSubmission) string {
	var blocks []string
	if len(s.Interests) > 0 {
		blocks = append(blocks, "Interests: "+strings.Join(s.Interests, ", "))
	}
	source := leadSourceNote
	if s.Source != "" {
		source = "Lead source: " + s.Source
	}
	blocks = append(blocks, source)
	blocks = append(blocks, "Submitted: "+submittedAt(s.SubmittedAt))
	return strings.Join(blocks, "\n\n")
}

// ToClientCreateInput maps a contact form submission to Jobber's client shape.
func (m *Mapper) ToClientCreateInput(s model.ContactSubmission) ClientCreateInput {
	first, last := m.SplitName(s.Name)

	input := ClientCreateInput{
		FirstName: first,
		LastName:  last,
		Emails: []EmailInput{
			{Description: "MAIN", Primary: true, Address: s.Email},
		},
		BillingAddress: m.ParseAddress(s.Address),
	}
	if s.Phone != "" {
		input.Phones = []PhoneInput{
			{Description: "MAIN", Primary: true, Number: s.Phone},
		}
	}
	return input
}

// NewsletterToClientCreateInput maps a newsletter sign-up to Jobber's client
// shape. Newsletter forms carry no phone or address.
func (m *Mapper) NewsletterToClientCreateInput(s model.NewsletterSubmission) ClientCreateInput {
	first, last := m.SplitName(s.Name)

	return ClientCreateInput{
		FirstName: first,
		LastName:  last,
		Emails: []EmailInput{
			{Description: "MAIN", Primary: true, Address: s.Email},
		},
	}
}

func submittedAt(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.Format(submittedAtLayout)
}
