package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"qrdrop/internal/services"
	"qrdrop/internal/transport/httpdto"
	qrdrop_errors "qrdrop/pkg/errors"

	"github.com/gin-gonic/gin"
)

// FileHandler is the gallery surface: it works on stored names directly and
// never consults the session store.
type FileHandler struct {
	service *services.RetrievalService
}

func NewFileHandler(service *services.RetrievalService) *FileHandler {
	return &FileHandler{service: service}
}

// List returns every stored filename
func (h *FileHandler) List(c *gin.Context) {
	names, err := h.service.ListFiles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("unable to fetch files", "LIST_FAILED"))
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FileListResponse{Files: names}))
}

// Delete removes one stored file by name. Any session still pointing at the
// name is left dangling and reads as not found on its next retrieval.
func (h *FileHandler) Delete(c *gin.Context) {
	err := h.service.DeleteFile(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, qrdrop_errors.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "FILE_NOT_FOUND"))
			return
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("unable to delete file", "DELETE_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"deleted": true}))
}

// Serve streams one stored file by name, static-server style
func (h *FileHandler) Serve(c *gin.Context) {
	name := c.Param("name")
	content, err := h.service.OpenFile(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, qrdrop_errors.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "FILE_NOT_FOUND"))
			return
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("unable to read file", "READ_FAILED"))
		return
	}
	defer content.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, content)
}
