package handler

import (
	"errors"
	"net/http"

	"qrdrop/internal/services"
	"qrdrop/internal/transport/httpdto"
	qrdrop_errors "qrdrop/pkg/errors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *services.UploadService
	baseURL string
}

func NewUploadHandler(service *services.UploadService, baseURL string) *UploadHandler {
	return &UploadHandler{service: service, baseURL: baseURL}
}

// Upload handles the desktop hand-off path: multipart file plus an optional
// session_id form field, answered with the session id the QR link needs.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(uploadErrorStatus(err), uploadErrorResponse(err))
		return
	}
	defer file.Close()

	sess, err := h.service.Upload(c.Request.Context(), services.UploadInput{
		SessionID:    c.PostForm("session_id"),
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Content:      file,
	})
	if err != nil {
		c.JSON(uploadErrorStatus(err), uploadErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.UploadResponse{
		SessionID: sess.ID,
		File:      httpdto.NewFileDTO(sess.StoredName, sess.OriginalName, sess.SizeBytes, sess.MimeType, sess.UploadedAt),
	}))
}

// MobileUpload handles the mobile push path: no session record, just storage
// plus a broadcast to every connected viewer.
func (h *UploadHandler) MobileUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(uploadErrorStatus(err), uploadErrorResponse(err))
		return
	}
	defer file.Close()

	meta, err := h.service.MobileUpload(c.Request.Context(), services.UploadInput{
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Content:      file,
	})
	if err != nil {
		c.JSON(uploadErrorStatus(err), uploadErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MobileUploadResponse{
		File:        httpdto.NewFileDTO(meta.StoredName, meta.OriginalName, meta.SizeBytes, meta.MimeType, meta.UploadedAt),
		DownloadURL: h.baseURL + "/uploads/" + meta.StoredName,
	}))
}

// isTooLarge reports whether err came from the body-size cap, either our own
// sentinel or the http.MaxBytesReader error surfacing through multipart parsing.
func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.Is(err, qrdrop_errors.ErrTooLarge) || errors.As(err, &maxBytesErr)
}

func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, qrdrop_errors.ErrStorageFailure):
		return http.StatusInternalServerError
	case isTooLarge(err):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

func uploadErrorResponse(err error) httpdto.Response[any] {
	switch {
	case errors.Is(err, qrdrop_errors.ErrStorageFailure):
		return httpdto.NewErrorResponse(qrdrop_errors.ErrStorageFailure.Error(), "UPLOAD_FAILED")
	case isTooLarge(err):
		return httpdto.NewErrorResponse(qrdrop_errors.ErrTooLarge.Error(), "FILE_TOO_LARGE")
	default:
		// FormFile failures and empty filenames all read as "no file"
		return httpdto.NewErrorResponse(qrdrop_errors.ErrNoFile.Error(), "NO_FILE")
	}
}
