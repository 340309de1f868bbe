package jobber

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldlink/jobber-adapter/internal/metrics"
	"github.com/fieldlink/jobber-adapter/internal/publisher"
	"github.com/fieldlink/jobber-adapter/internal/store"
	"github.com/fieldlink/jobber-adapter/pkg/model"
)

// GraphQLExecutor is the slice of Client the service needs.
type GraphQLExecutor interface {
	Execute(ctx context.Context, operation, query string, variables map[string]any) (*GraphQLResponse, error)
}

// Service relays form submissions into Jobber: it maps the payload, runs the
// client-create mutation, normalizes every failure layer into one
// SubmissionResult, and attaches a note as a best-effort secondary effect.
//
// Store and publisher are side channels. They must never change the returned
// result: a client that exists in the CRM is a success no matter what happens
// to the audit row, the event, or the note.
type Service struct {
	logger *zap.Logger
	client GraphQLExecutor
	mapper *Mapper
	store  store.Store
	pub    *publisher.Publisher
}

// NewService constructs the submission service. store and pub may be nil.
func NewService(logger *zap.Logger, client GraphQLExecutor, st store.Store, pub *publisher.Publisher) *Service {
	return &Service{
		logger: logger,
		client: client,
		mapper: NewMapper(),
		store:  st,
		pub:    pub,
	}
}

// SubmitContact relays a contact form submission.
func (s *Service) SubmitContact(ctx context.Context, sub model.ContactSubmission) model.SubmissionResult {
	s.logger.Info("jobber.submit_contact.start",
		zap.String("email", sub.Email))

	input := s.mapper.ToClientCreateInput(sub)
	notes := s.mapper.ContactNotes(sub)

	return s.submit(ctx, "contact", sub.Email, input, notes)
}

// SubmitNewsletter relays a newsletter sign-up. The subscriber row is saved
// best-effort alongside the CRM submission.
func (s *Service) SubmitNewsletter(ctx context.Context, sub model.NewsletterSubmission) model.SubmissionResult {
	s.logger.Info("jobber.submit_newsletter.start",
		zap.String("email", sub.Email))

	s.saveSubscriber(ctx, sub)

	input := s.mapper.NewsletterToClientCreateInput(sub)
	notes := s.mapper.NewsletterNotes(sub)

	return s.submit(ctx, "newsletter", sub.Email, input, notes)
}

// submit runs the primary mutation, then the best-effort secondary effects.
func (s *Service) submit(ctx context.Context, kind, email string, input ClientCreateInput, notes string) model.SubmissionResult {
	result := s.createClient(ctx, input)

	if result.Success {
		s.logger.Info("jobber.client_created",
			zap.String("kind", kind),
			zap.String("client_id", result.Client.ID))
		s.attachNote(ctx, result.Client.ID, notes)
	} else {
		s.logger.Warn("jobber.submit_failed",
			zap.String("kind", kind),
			zap.Strings("errors", result.Errors))
	}

	s.recordOutcome(ctx, kind, email, result)

	outcome := "failure"
	if result.Success {
		outcome = "success"
	}
	metrics.IncSubmission(kind, outcome)

	return result
}

// createClient runs the client-create mutation and applies the result
// precedence: transport error, then GraphQL errors, then userErrors, then the
// created client, then "unknown error". Exactly one path is taken.
func (s *Service) createClient(ctx context.Context, input ClientCreateInput) model.SubmissionResult {
	resp, err := s.client.Execute(ctx, "client_create", clientCreateMutation, map[string]any{
		"input": input,
	})
	if err != nil {
		// Covers transport failures and every token resolution error.
		return model.Failure(err.Error())
	}

	if msgs := resp.ErrorMessages(); len(msgs) > 0 {
		return model.Failure(msgs...)
	}

	var payload clientCreatePayload
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &payload); err != nil {
			return model.Failure("malformed clientCreate payload: " + err.Error())
		}
	}

	if msgs := userErrorMessages(payload.ClientCreate.UserErrors); len(msgs) > 0 {
		return model.Failure(msgs...)
	}

	if payload.ClientCreate.Client != nil {
		return model.SubmissionResult{Success: true, Client: payload.ClientCreate.Client}
	}

	return model.Failure("unknown error")
}

// attachNote attaches the composed note to a freshly created client. Failures
// are logged and swallowed: the client record already exists and must not be
// reported as a failure because the annotation did not stick.
func (s *Service) attachNote(ctx context.Context, clientID, notes string) {
	if notes == "" {
		return
	}

	resp, err := s.client.Execute(ctx, "client_note_create", clientNoteCreateMutation, map[string]any{
		"clientId": clientID,
		"note":     notes,
	})
	if err != nil {
		s.logger.Warn("jobber.note_attach_failed",
			zap.String("client_id", clientID),
			zap.Error(err))
		return
	}

	if msgs := resp.ErrorMessages(); len(msgs) > 0 {
		s.logger.Warn("jobber.note_attach_rejected",
			zap.String("client_id", clientID),
			zap.Strings("errors", msgs))
		return
	}

	var payload clientNoteCreatePayload
	if len(resp.Data) > 0 {
		_ = json.Unmarshal(resp.Data, &payload)
	}
	if msgs := userErrorMessages(payload.ClientCreateNote.UserErrors); len(msgs) > 0 {
		s.logger.Warn("jobber.note_attach_rejected",
			zap.String("client_id", clientID),
			zap.Strings("errors", msgs))
		return
	}

	s.logger.Debug("jobber.note_attached", zap.String("client_id", clientID))
}

// recordOutcome persists the audit row and publishes the submission event.
func (s *Service) recordOutcome(ctx context.Context, kind, email string, result model.SubmissionResult) {
	id := uuid.NewString()
	clientID := ""
	if result.Client != nil {
		clientID = result.Client.ID
	}

	if s.store != nil {
		rec := model.SubmissionRecord{
			ID:        id,
			Kind:      kind,
			Email:     email,
			Success:   result.Success,
			ClientID:  clientID,
			Errors:    result.Errors,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.RecordSubmission(ctx, rec); err != nil {
			s.logger.Warn("jobber.record_submission_failed",
				zap.String("submission_id", id),
				zap.Error(err))
		}
	}

	if s.pub != nil {
		evt := model.SubmissionEvent{
			SubmissionID: id,
			Kind:         kind,
			Email:        email,
			Success:      result.Success,
			ClientID:     clientID,
			Errors:       result.Errors,
			Timestamp:    time.Now().UTC(),
		}
		if err := s.pub.PublishSubmission(ctx, evt); err != nil {
			s.logger.Warn("jobber.publish_failed",
				zap.String("submission_id", id),
				zap.Error(err))
		}
	}
}

// saveSubscriber upserts the newsletter subscriber row, best-effort.
func (s *Service) saveSubscriber(ctx context.Context, sub model.NewsletterSubmission) {
	if s.store == nil {
		return
	}

	when := sub.SubmittedAt
	if when.IsZero() {
		when = time.Now().UTC()
	}
	err := s.store.SaveSubscriber(ctx, model.Subscriber{
		Email:        sub.Email,
		Name:         sub.Name,
		Interests:    sub.Interests,
		Source:       sub.Source,
		SubscribedAt: when,
	})
	if err != nil {
		s.logger.Warn("jobber.save_subscriber_failed",
			zap.String("email", sub.Email),
			zap.Error(err))
	}
}
