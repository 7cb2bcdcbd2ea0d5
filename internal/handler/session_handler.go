package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"qrdrop/internal/services"
	"qrdrop/internal/transport/httpdto"
	qrdrop_errors "qrdrop/pkg/errors"
	"qrdrop/pkg/logger"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	service *services.RetrievalService
}

func NewSessionHandler(service *services.RetrievalService) *SessionHandler {
	return &SessionHandler{service: service}
}

// withSessionID stashes the session id on the request context so the access
// log line for this request carries it.
func withSessionID(c *gin.Context, id string) {
	ctx := context.WithValue(c.Request.Context(), logger.SessionIdKey, id)
	c.Request = c.Request.WithContext(ctx)
}

// GetSession returns session metadata without marking anything downloaded
func (h *SessionHandler) GetSession(c *gin.Context) {
	withSessionID(c, c.Param("id"))
	sess, err := h.service.GetMetadata(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(qrdrop_errors.ErrSessionNotFound.Error(), "SESSION_NOT_FOUND"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewSessionResponse(sess)))
}

// Receive streams the session's file. The downloaded flag is flipped before
// the first byte goes out, so an interrupted transfer still reads as
// downloaded afterwards.
func (h *SessionHandler) Receive(c *gin.Context) {
	withSessionID(c, c.Param("id"))
	sess, content, err := h.service.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, qrdrop_errors.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "SESSION_NOT_FOUND"))
		case errors.Is(err, qrdrop_errors.ErrFileNotFound):
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "FILE_NOT_FOUND"))
		default:
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "INTERNAL_ERROR"))
		}
		return
	}
	defer content.Close()

	contentType := sess.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", sess.OriginalName),
	}
	c.DataFromReader(http.StatusOK, sess.SizeBytes, contentType, content, extraHeaders)
}
