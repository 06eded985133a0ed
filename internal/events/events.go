package events

import "time"

// FetchTimeout is the default timeout for batch fetching messages from consumers.
const FetchTimeout = 2 * time.Second

// Stream and subject constants.
const (
	StreamEvents = "DECODEDESK_EVENTS"

	SubjectTranslation = "decodedesk.events.translation"
	SubjectContact     = "decodedesk.events.contact"
)

// TranslationEvent is published after every successful translation and
// consumed into the analytics aggregates.
type TranslationEvent struct {
	Identity      string    `json:"identity"`
	Authenticated bool      `json:"authenticated"`
	Mode          string    `json:"mode"`
	InputLength   int       `json:"input_length"`
	Original      string    `json:"original,omitempty"`
	Translation   string    `json:"translation,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ContactEvent is published when a contact-form message is accepted, so
// notification delivery stays off the request path.
type ContactEvent struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
}
