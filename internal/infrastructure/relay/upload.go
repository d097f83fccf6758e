package relay

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/ports"
)

// Upload relays one multipart file upload to the backend files endpoint.
// The form carries exactly two parts: the decoded file and its purpose.
func (e *Executor) Upload(ctx context.Context, descriptor domain.FileUploadDescriptor) (*domain.ResponseEnvelope, error) {
	id := domain.GenerateCorrelationID()
	start := time.Now()

	e.logger.Log(ports.LogLevelInfo, "starting file upload", map[string]interface{}{
		"request_id": id.Value(),
		"file_name":  descriptor.FileName,
		"purpose":    descriptor.Purpose,
		"api_key":    maskAPIKey(descriptor.APIKey),
	})

	pc, err := newClient(descriptor.ProxyConfig)
	if err != nil {
		return nil, e.fail(&Error{
			Kind:      KindProxyConfig,
			RequestID: id.Value(),
			Detail:    "HTTP proxy configuration error",
			Hint:      "check proxy settings",
			Cause:     err,
		})
	}

	content, err := base64.StdEncoding.DecodeString(descriptor.FileData)
	if err != nil {
		return nil, e.fail(&Error{
			Kind:      KindPayloadDecode,
			RequestID: id.Value(),
			Detail:    "base64 decode error",
			Cause:     err,
		})
	}

	formBody, contentType, err := buildUploadForm(descriptor.FileName, descriptor.Purpose, content)
	if err != nil {
		return nil, e.fail(&Error{
			Kind:      KindUploadFailed,
			RequestID: id.Value(),
			Detail:    "failed to build upload form",
			Cause:     err,
		})
	}

	target := domain.JoinURL(descriptor.BaseURL, "files")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(formBody))
	if err != nil {
		return nil, e.fail(&Error{
			Kind:      KindUploadFailed,
			RequestID: id.Value(),
			Detail:    "failed to create upload request",
			Cause:     err,
			ProxyInfo: pc.proxyInfo,
		})
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Authorization", "Bearer "+descriptor.APIKey)
	for key, value := range descriptor.AdditionalHeaders {
		req.Header.Set(key, value)
	}

	e.logger.Log(ports.LogLevelDebug, "sending upload", map[string]interface{}{
		"request_id": id.Value(),
		"url":        target,
		"file_size":  len(content),
	})

	resp, err := pc.client.Do(req)
	networkTime := time.Since(start)
	if err != nil {
		return nil, e.fail(&Error{
			Kind:      KindUploadFailed,
			RequestID: id.Value(),
			Detail:    "failed to upload file",
			Cause:     err,
			Elapsed:   networkTime,
			ProxyInfo: pc.proxyInfo,
		})
	}
	defer resp.Body.Close()

	envelope, relayErr := e.drainResponse(id, resp, pc.proxyInfo, start, false)
	if relayErr != nil {
		return nil, e.fail(relayErr)
	}

	e.logger.Log(ports.LogLevelInfo, "file upload completed", map[string]interface{}{
		"request_id":      id.Value(),
		"status":          envelope.Status,
		"body_size":       len(envelope.Body),
		"network_time_ms": networkTime.Milliseconds(),
		"total_time_ms":   time.Since(start).Milliseconds(),
	})
	if envelope.Status >= 400 {
		e.logger.Log(ports.LogLevelError, "upload returned error status", map[string]interface{}{
			"request_id":   id.Value(),
			"status":       envelope.Status,
			"body_preview": truncate(envelope.Body, errorPreviewLimit),
		})
	}

	return envelope, nil
}

// buildUploadForm assembles the two-part multipart body: the file part with
// a generic binary content type and the purpose text part.
func buildUploadForm(fileName, purpose string, content []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filePart, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := filePart.Write(content); err != nil {
		return nil, "", fmt.Errorf("failed to write file content: %w", err)
	}
	if err := writer.WriteField("purpose", purpose); err != nil {
		return nil, "", fmt.Errorf("failed to write purpose field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
