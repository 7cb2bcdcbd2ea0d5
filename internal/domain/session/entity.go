package session

import "time"

// Session represents one upload-to-retrieval hand-off. The id is normally
// minted by the sending client from a timestamp; StoredName is the name the
// bytes live under in storage for the session's whole lifetime.
type Session struct {
	ID           string
	StoredName   string
	OriginalName string
	SizeBytes    int64
	MimeType     string
	UploadedAt   time.Time
	Downloaded   bool
}
