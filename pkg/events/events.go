package events

import "context"

// Event types published by the upload paths.
const (
	TypeFileUploaded = "file-uploaded"
)

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// Publisher fans an event out to whoever is currently listening.
// Delivery is best-effort: publishing with zero listeners is not an error.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
