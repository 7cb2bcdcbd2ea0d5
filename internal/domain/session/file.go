package session

import "time"

// FileMeta describes a stored file outside any session, as the mobile push
// path and the gallery view see it.
type FileMeta struct {
	StoredName   string
	OriginalName string
	SizeBytes    int64
	MimeType     string
	UploadedAt   time.Time
}
