package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ImageUploader sends a file to the image host and returns its durable URL.
type ImageUploader interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
}

type UploadHandler struct {
	uploader ImageUploader
	log      *logrus.Logger
}

func NewUploadHandler(uploader ImageUploader, log *logrus.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, log: log}
}

// Upload handles POST /api/upload with a multipart "file" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		internalError(c, h.log, "Failed to read file", err)
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), file)
	if err != nil {
		internalError(c, h.log, "Failed to upload image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
