package jobber

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlink/jobber-adapter/pkg/model"
)

func TestMapper_SplitName(t *testing.T) {
	m := NewMapper()

	tests := []struct {
		name  string
		input string
		first string
		last  *string
	}{
		{"single word", "Madonna", "Madonna", nil},
		{"two words", "Jane Doe", "Jane", ptr("Doe")},
		{"three words", "Jane van Doe", "Jane", ptr("van Doe")},
		{"extra whitespace", "  Jane   Doe  ", "Jane", ptr("Doe")},
		{"empty", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := m.SplitName(tt.input)
			assert.Equal(t, tt.first, first)
			if tt.last == nil {
				assert.Nil(t, last, "single-word names must yield an absent last name, not an empty one")
			} else {
				require.NotNil(t, last)
				assert.Equal(t, *tt.last, *last)
			}
		})
	}
}

func TestMapper_ParseAddress(t *testing.T) {
	m := NewMapper()

	t.Run("full address", func(t *testing.T) {
		addr := m.ParseAddress("123 Main St, Springfield, IL 62704")
		require.NotNil(t, addr)
		assert.Equal(t, "123 Main St", *addr.Street1)
		assert.Equal(t, "Springfield", *addr.City)
		assert.Equal(t, "IL", *addr.Province)
		assert.Equal(t, "62704", *addr.PostalCode)
	})

	t.Run("street only", func(t *testing.T) {
		addr := m.ParseAddress("123 Main St")
		require.NotNil(t, addr)
		assert.Equal(t, "123 Main St", *addr.Street1)
		assert.Nil(t, addr.City)
		assert.Nil(t, addr.Province)
		assert.Nil(t, addr.PostalCode)
	})

	t.Run("street and city", func(t *testing.T) {
		addr := m.ParseAddress("123 Main St, Springfield")
		require.NotNil(t, addr)
		assert.Equal(t, "Springfield", *addr.City)
		assert.Nil(t, addr.Province)
	})

	t.Run("third part without zip", func(t *testing.T) {
		addr := m.ParseAddress("123 Main St, Springfield, IL")
		require.NotNil(t, addr)
		assert.Equal(t, "IL", *addr.Province)
		assert.Nil(t, addr.PostalCode)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, m.ParseAddress(""))
		assert.Nil(t, m.ParseAddress("   "))
	})
}

func TestMapper_ContactNotes(t *testing.T) {
	m := NewMapper()
	when := time.Date(2026, time.March, 14, 15, 4, 0, 0, time.UTC)

	t.Run("all blocks", func(t *testing.T) {
		notes := m.ContactNotes(model.ContactSubmission{
			ContactPreference: "Phone",
			AdditionalInfo:    "Interested in weekly service.",
			SubmittedAt:       when,
		})

		blocks := strings.Split(notes, "\n\n")
		require.Len(t, blocks, 4)
		assert.Equal(t, "Preferred contact method: Phone", blocks[0])
		assert.Equal(t, "Interested in weekly service.", blocks[1])
		assert.Equal(t, leadSourceNote, blocks[2])
		assert.Equal(t, "Submitted: March 14, 2026 at 3:04 PM UTC", blocks[3])
	})

	t.Run("optional blocks omitted", func(t *testing.T) {
		notes := m.ContactNotes(model.ContactSubmission{SubmittedAt: when})

		blocks := strings.Split(notes, "\n\n")
		require.Len(t, blocks, 2, "no empty-line artifacts for absent blocks")
		assert.Equal(t, leadSourceNote, blocks[0])
	})
}

func TestMapper_NewsletterNotes(t *testing.T) {
	m := NewMapper()
	when := time.Date(2026, time.March, 14, 15, 4, 0, 0, time.UTC)

	notes := m.NewsletterNotes(model.NewsletterSubmission{
		Interests:   []string{"lawn care", "snow removal"},
		Source:      "spring campaign",
		SubmittedAt: when,
	})

	blocks := strings.Split(notes, "\n\n")
	require.Len(t, blocks, 3)
	assert.Equal(t, "Interests: lawn care, snow removal", blocks[0])
	assert.Equal(t, "Lead source: spring campaign", blocks[1])
}

func TestMapper_ToClientCreateInput(t *testing.T) {
	m := NewMapper()

	input := m.ToClientCreateInput(model.ContactSubmission{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "555-0100",
		Address: "123 Main St, Springfield, IL 62704",
	})

	assert.Equal(t, "Jane", input.FirstName)
	require.NotNil(t, input.LastName)
	assert.Equal(t, "Doe", *input.LastName)

	// Exactly one email, primary, described MAIN.
	require.Len(t, input.Emails, 1)
	assert.True(t, input.Emails[0].Primary)
	assert.Equal(t, "MAIN", input.Emails[0].Description)
	assert.Equal(t, "jane@example.com", input.Emails[0].Address)

	require.Len(t, input.Phones, 1)
	assert.Equal(t, "555-0100", input.Phones[0].Number)

	require.NotNil(t, input.BillingAddress)
	assert.Equal(t, "Springfield", *input.BillingAddress.City)
}

func TestMapper_ToClientCreateInput_Minimal(t *testing.T) {
	m := NewMapper()

	input := m.ToClientCreateInput(model.ContactSubmission{
		Name:  "Cher",
		Email: "cher@example.com",
	})

	assert.Equal(t, "Cher", input.FirstName)
	assert.Nil(t, input.LastName)
	assert.Empty(t, input.Phones)
	assert.Nil(t, input.BillingAddress)
	require.Len(t, input.Emails, 1)
}

func TestMapper_NewsletterToClientCreateInput(t *testing.T) {
	m := NewMapper()

	input := m.NewsletterToClientCreateInput(model.NewsletterSubmission{
		Email: "sub@example.com",
	})

	assert.Equal(t, "", input.FirstName)
	assert.Nil(t, input.LastName)
	require.Len(t, input.Emails, 1)
	assert.True(t, input.Emails[0].Primary)
	assert.Equal(t, "MAIN", input.Emails[0].Description)
}

func ptr(s string) *string { return &s }
