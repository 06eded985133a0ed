package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Publisher provides typed methods for publishing events to NATS JetStream.
type Publisher struct {
	js jetstream.JetStream
}

func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishTranslation publishes a completed translation for analytics processing.
func (p *Publisher) PublishTranslation(ctx context.Context, event TranslationEvent) error {
	return p.publish(ctx, SubjectTranslation, event)
}

// PublishContact publishes an accepted contact-form submission.
func (p *Publisher) PublishContact(ctx context.Context, event ContactEvent) error {
	return p.publish(ctx, SubjectContact, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	_, err = p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
