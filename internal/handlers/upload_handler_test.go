package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	url string
	err error
	got []byte
}

func (f *fakeUploader) Upload(_ context.Context, file io.Reader) (string, error) {
	f.got, _ = io.ReadAll(file)
	return f.url, f.err
}

func uploadRouter(u ImageUploader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/upload", NewUploadHandler(u, testLogger()).Upload)
	return r
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadReturnsHostedURL(t *testing.T) {
	uploader := &fakeUploader{url: "https://cdn.example/products/lamp.png"}
	r := uploadRouter(uploader)

	body, contentType := multipartBody(t, "file", "lamp.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), uploader.url)
	assert.Equal(t, []byte("png-bytes"), uploader.got)
}

func TestUploadNoFile(t *testing.T) {
	r := uploadRouter(&fakeUploader{})

	body, contentType := multipartBody(t, "other", "lamp.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file")
}
