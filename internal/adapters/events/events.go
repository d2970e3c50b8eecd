// Package events publishes roster change notifications.
package events

import "context"

// Topics.
const (
	TopicParticipantsSaved = "roster.participants.saved"
	TopicAll               = "roster.>"
)

// Publisher sends JSON-encoded events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// ParticipantsSaved is published after a save transaction commits.
type ParticipantsSaved struct {
	ActivityID int64 `json:"activity_id"`
	Room       int   `json:"room"`
	Upserted   int   `json:"upserted"`
	Deleted    int   `json:"deleted"`
}
