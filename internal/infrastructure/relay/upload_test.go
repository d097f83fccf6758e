package relay

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
)

// TestExecutor_Upload_Success tests the multipart round trip: file part,
// purpose field, auth header, and the fixed /files endpoint
func TestExecutor_Upload_Success(t *testing.T) {
	fileContent := []byte("%PDF-1.4 fake document")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/files", r.URL.Path)
		assert.Equal(t, "Bearer sk-test-123456789", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))

		require.NoError(t, r.ParseMultipartForm(1<<20))

		require.Len(t, r.MultipartForm.File["file"], 1)
		part := r.MultipartForm.File["file"][0]
		assert.Equal(t, "report.pdf", part.Filename)
		assert.Equal(t, "application/octet-stream", part.Header.Get("Content-Type"))

		f, err := part.Open()
		require.NoError(t, err)
		defer f.Close()
		got, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, fileContent, got)

		assert.Equal(t, "assistants", r.FormValue("purpose"))

		io.WriteString(w, `{"id":"file-abc123","object":"file"}`)
	}))
	defer server.Close()

	executor := NewExecutor(newTestLogger())
	envelope, err := executor.Upload(context.Background(), domain.FileUploadDescriptor{
		BaseURL:  server.URL + "/v1/",
		APIKey:   "sk-test-123456789",
		FileData: base64.StdEncoding.EncodeToString(fileContent),
		FileName: "report.pdf",
		Purpose:  "assistants",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, envelope.Status)
	assert.Contains(t, envelope.Body, "file-abc123")
}

// TestExecutor_Upload_InvalidBase64 tests rejection before any network
// activity when the payload cannot be decoded
func TestExecutor_Upload_InvalidBase64(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	executor := NewExecutor(newTestLogger())
	envelope, err := executor.Upload(context.Background(), domain.FileUploadDescriptor{
		BaseURL:  server.URL,
		APIKey:   "sk-test-123456789",
		FileData: "@@not-base64@@",
		FileName: "report.pdf",
		Purpose:  "assistants",
	})

	require.Error(t, err)
	assert.Nil(t, envelope)

	var relayErr *Error
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, KindPayloadDecode, relayErr.Kind)
	assert.Contains(t, err.Error(), "base64 decode error")
	assert.Zero(t, calls.Load(), "no request may be sent")
}

// TestExecutor_Upload_AdditionalHeaders tests that caller headers ride along
// without clobbering the multipart content type
func TestExecutor_Upload_AdditionalHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "org-42", r.Header.Get("OpenAI-Organization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
	}))
	defer server.Close()

	executor := NewExecutor(newTestLogger())
	_, err := executor.Upload(context.Background(), domain.FileUploadDescriptor{
		BaseURL:           server.URL,
		APIKey:            "sk-test-123456789",
		FileData:          base64.StdEncoding.EncodeToString([]byte("data")),
		FileName:          "notes.txt",
		Purpose:           "assistants",
		AdditionalHeaders: map[string]string{"OpenAI-Organization": "org-42"},
	})
	require.NoError(t, err)
}

// TestExecutor_Upload_SendFailure tests transport failure classification for
// uploads
func TestExecutor_Upload_SendFailure(t *testing.T) {
	executor := NewExecutor(newTestLogger())
	_, err := executor.Upload(context.Background(), domain.FileUploadDescriptor{
		BaseURL:  "http://127.0.0.1:1",
		APIKey:   "sk-test-123456789",
		FileData: base64.StdEncoding.EncodeToString([]byte("data")),
		FileName: "notes.txt",
		Purpose:  "assistants",
	})

	require.Error(t, err)

	var relayErr *Error
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, KindUploadFailed, relayErr.Kind)
	assert.Contains(t, err.Error(), "failed to upload file")
}

// TestExecutor_Upload_ErrorStatusIsEnvelope tests that a rejected upload
// still yields the backend's response envelope
func TestExecutor_Upload_ErrorStatusIsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"unsupported file type"}}`)
	}))
	defer server.Close()

	executor := NewExecutor(newTestLogger())
	envelope, err := executor.Upload(context.Background(), domain.FileUploadDescriptor{
		BaseURL:  server.URL,
		APIKey:   "sk-test-123456789",
		FileData: base64.StdEncoding.EncodeToString([]byte("data")),
		FileName: "notes.exe",
		Purpose:  "assistants",
	})

	require.NoError(t, err, "backend rejections are envelopes, not errors")
	assert.Equal(t, http.StatusBadRequest, envelope.Status)
	assert.Contains(t, envelope.Body, "unsupported file type")
}
