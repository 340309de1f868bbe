package jobber

import (
	"encoding/json"
	"fmt"

	"github.com/fieldlink/jobber-adapter/pkg/model"
)

//
// ────────────────────────────────────────────────
//   GraphQL protocol envelope
// ────────────────────────────────────────────────
//

// GraphQLRequest is the POST body sent to the Jobber GraphQL endpoint.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLError is one entry of the protocol-level errors array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLResponse is the raw {data, errors} envelope from a 2xx response.
// Both fields may be populated at once; the client hands both back and
// callers decide precedence.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// ErrorMessages flattens the protocol errors to plain strings.
func (r *GraphQLResponse) ErrorMessages() []string {
	if len(r.Errors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// TransportError is a non-2xx HTTP status from the GraphQL endpoint. It is
// fatal for the call; the adapter never retries it.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("jobber api returned %d: %s", e.Status, e.Body)
}

//
// ────────────────────────────────────────────────
//   CANONICAL → JOBBER : client creation input
// ────────────────────────────────────────────────
//

// EmailInput is one entry of ClientCreateInput.Emails. Exactly one email is
// ever sent, marked primary with description MAIN.
type EmailInput struct {
	Description string `json:"description"`
	Primary     bool   `json:"primary"`
	Address     string `json:"address"`
}

type PhoneInput struct {
	Description string `json:"description"`
	Primary     bool   `json:"primary"`
	Number      string `json:"number"`
}

// AddressInput carries the leniently parsed billing address. Absent fields
// are omitted entirely; Jobber treats absent and empty differently.
type AddressInput struct {
	Street1    *string `json:"street1,omitempty"`
	City       *string `json:"city,omitempty"`
	Province   *string `json:"province,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
}

type ClientCreateInput struct {
	FirstName      string        `json:"firstName"`
	LastName       *string       `json:"lastName,omitempty"`
	Emails         []EmailInput  `json:"emails"`
	Phones         []PhoneInput  `json:"phones,omitempty"`
	BillingAddress *AddressInput `json:"billingAddress,omitempty"`
}

//
// ────────────────────────────────────────────────
//   JOBBER → CANONICAL : mutation payloads
// ────────────────────────────────────────────────
//

// UserError is a Jobber business-rule validation failure returned inside a
// successful GraphQL envelope.
type UserError struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

func userErrorMessages(errs []UserError) []string {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

type clientCreatePayload struct {
	ClientCreate struct {
		Client     *model.CrmClient `json:"client"`
		UserErrors []UserError      `json:"userErrors"`
	} `json:"clientCreate"`
}

type clientNoteCreatePayload struct {
	ClientCreateNote struct {
		ClientNote *struct {
			ID string `json:"id"`
		} `json:"clientNote"`
		UserErrors []UserError `json:"userErrors"`
	} `json:"clientCreateNote"`
}
