package publisher

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/fieldlink/jobber-adapter/internal/metrics"
	"github.com/fieldlink/jobber-adapter/pkg/model"
)

// jetStream is the slice of nats.JetStreamContext the publisher uses.
type jetStream interface {
	PublishMsg(msg *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Publisher publishes submission events to NATS JetStream.
type Publisher struct {
	js      jetStream
	subject string
	service string
}

// New creates a new Publisher with JetStream enabled.
func New(nc *nats.Conn, subject, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{
		js:      js,
		subject: subject,
		service: service,
	}, nil
}

// PublishSubmission serializes and publishes a submission event.
func (p *Publisher) PublishSubmission(ctx context.Context, evt model.SubmissionEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		metrics.IncNATSPublishError(p.subject)
		return err
	}

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    data,
		Header: nats.Header{
			"event_type":     []string{"crm.submission"},
			"correlation_id": []string{uuid.NewString()},
			"service":        []string{p.service},
			"content_type":   []string{"application/json"},
			"submission_id":  []string{evt.SubmissionID},
		},
	}

	if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		metrics.IncNATSPublishError(p.subject)
		return err
	}
	return nil
}
