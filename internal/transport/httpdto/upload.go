package httpdto

import (
	"time"

	"qrdrop/internal/domain/session"
)

// FileDTO describes a stored file in API responses
type FileDTO struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
	UploadedAt   string `json:"uploaded_at"`
}

// UploadResponse is returned by POST /upload
type UploadResponse struct {
	SessionID string  `json:"session_id"`
	File      FileDTO `json:"file"`
}

// MobileUploadResponse is returned by POST /mobile-upload
type MobileUploadResponse struct {
	File        FileDTO `json:"file"`
	DownloadURL string  `json:"download_url"`
}

// SessionResponse is returned by GET /session/:id
type SessionResponse struct {
	SessionID  string `json:"session_id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mimetype"`
	UploadedAt string `json:"uploaded_at"`
	Downloaded bool   `json:"downloaded"`
}

// FileListResponse is returned by GET /files
type FileListResponse struct {
	Files []string `json:"files"`
}

func NewFileDTO(storedName, originalName string, size int64, mimeType string, uploadedAt time.Time) FileDTO {
	return FileDTO{
		Filename:     storedName,
		OriginalName: originalName,
		Size:         size,
		MimeType:     mimeType,
		UploadedAt:   uploadedAt.UTC().Format(time.RFC3339),
	}
}

func NewSessionResponse(sess session.Session) SessionResponse {
	return SessionResponse{
		SessionID:  sess.ID,
		Filename:   sess.OriginalName,
		Size:       sess.SizeBytes,
		MimeType:   sess.MimeType,
		UploadedAt: sess.UploadedAt.UTC().Format(time.RFC3339),
		Downloaded: sess.Downloaded,
	}
}
