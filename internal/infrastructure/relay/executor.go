package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/ports"
)

// defaultUserAgent identifies the app to backends. Additional headers can
// override it like any other fixed header.
const defaultUserAgent = "Ai-SDK-chatUI/1.0"

// largeResponseBytes triggers a warning log without failing the call.
const largeResponseBytes = 10 * 1024 * 1024

const (
	previewLimit      = 1000
	errorPreviewLimit = 500
)

// Executor relays UI-described requests to OpenAI-compatible backends. It is
// stateless: every invocation builds its own client and correlation ID, so a
// single Executor is safe for concurrent use.
type Executor struct {
	logger    ports.LoggingGateway
	userAgent string
	maxBody   int64
}

// NewExecutor creates an Executor that logs through the supplied gateway.
func NewExecutor(logger ports.LoggingGateway) *Executor {
	return &Executor{
		logger:    logger,
		userAgent: defaultUserAgent,
		maxBody:   MaxResponseBytes,
	}
}

// Execute relays one request and normalizes the result. HTTP 4xx/5xx are
// successful envelopes; only configuration, transport, and size failures
// return an error, always of type *Error.
func (e *Executor) Execute(ctx context.Context, descriptor domain.RequestDescriptor) (*domain.ResponseEnvelope, error) {
	id := domain.GenerateCorrelationID()
	start := time.Now()

	e.logger.Log(ports.LogLevelInfo, "executing request", map[string]interface{}{
		"request_id":   id.Value(),
		"method":       descriptor.Method,
		"base_url":     descriptor.BaseURL,
		"path":         descriptor.Path,
		"api_key":      maskAPIKey(descriptor.APIKey),
		"header_count": len(descriptor.AdditionalHeaders),
		"body_size":    len(descriptor.Body),
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
	if pc.proxyInfo != "" {
		e.logger.Log(ports.LogLevelDebug, "proxy configuration applied", map[string]interface{}{
			"request_id": id.Value(),
			"proxies":    pc.proxyInfo,
		})
	}

	method, err := domain.NormalizeMethod(descriptor.Method)
	if err != nil {
		return nil, e.fail(&Error{
			Kind:      KindUnsupportedMethod,
			RequestID: id.Value(),
			Detail:    err.Error(),
		})
	}

	target := domain.JoinURL(descriptor.BaseURL, descriptor.Path)

	var payload io.Reader
	if descriptor.HasBody() {
		payload = bytes.NewReader(descriptor.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, e.fail(&Error{
			Kind:      KindMalformedRequest,
			RequestID: id.Value(),
			Detail:    "invalid request",
			Cause:     err,
			ProxyInfo: pc.proxyInfo,
		})
	}
	e.setRequestHeaders(req, descriptor.APIKey, descriptor.AdditionalHeaders, descriptor.HasBody())

	e.logger.Log(ports.LogLevelDebug, "sending request", map[string]interface{}{
		"request_id": id.Value(),
		"method":     method,
		"url":        target,
	})

	resp, err := pc.client.Do(req)
	networkTime := time.Since(start)
	if err != nil {
		return nil, e.fail(e.transportError(id, err, networkTime, pc.proxyInfo))
	}
	defer resp.Body.Close()

	envelope, relayErr := e.drainResponse(id, resp, pc.proxyInfo, start, true)
	if relayErr != nil {
		return nil, e.fail(relayErr)
	}

	e.logCompletion(id, descriptor.Path, envelope, networkTime, time.Since(start))
	return envelope, nil
}

// setRequestHeaders applies the fixed headers first, then the caller-supplied
// map with replace semantics so collisions resolve last-write-wins (a caller
// Authorization overrides the bearer token). Content-Type is pinned to JSON
// whenever a body is sent.
func (e *Executor) setRequestHeaders(req *http.Request, apiKey string, additional map[string]string, hasBody bool) {
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Authorization", "Bearer "+apiKey)
	for key, value := range additional {
		req.Header.Set(key, value)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}

// transportError classifies a send failure into its terminal *Error.
func (e *Executor) transportError(id domain.CorrelationID, err error, elapsed time.Duration, proxyInfo string) *Error {
	kind := classify(err)
	detail, hint := kindText(kind)
	return &Error{
		Kind:      kind,
		RequestID: id.Value(),
		Detail:    detail,
		Hint:      hint,
		Cause:     err,
		Elapsed:   elapsed,
		ProxyInfo: proxyInfo,
	}
}

// drainResponse reads the full body, enforces the size ceiling, and
// normalizes the envelope. Read failures refine into the decode class only
// for request relays; uploads report the coarser body-read class.
func (e *Executor) drainResponse(id domain.CorrelationID, resp *http.Response, proxyInfo string, start time.Time, refineRead bool) (*domain.ResponseEnvelope, *Error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		kind, detail := KindBodyRead, "failed to read response body"
		if refineRead && classifyByMessage(err) == KindResponseDecode {
			kind, detail = KindResponseDecode, "response decode error"
		}
		return nil, &Error{
			Kind:      kind,
			RequestID: id.Value(),
			Detail:    detail,
			Cause:     err,
			Elapsed:   time.Since(start),
			ProxyInfo: proxyInfo,
		}
	}

	if int64(len(body)) > e.maxBody {
		return nil, &Error{
			Kind:      KindResponseTooLarge,
			RequestID: id.Value(),
			Detail:    fmt.Sprintf("response too large: %d bytes (limit: %d bytes)", len(body), e.maxBody),
		}
	}

	return newEnvelope(resp.StatusCode, body, resp.Header), nil
}

// fail logs the terminal error through the gateway before returning it.
func (e *Executor) fail(relayErr *Error) *Error {
	e.logger.LogError(relayErr, "request failed", map[string]interface{}{
		"request_id": relayErr.RequestID,
		"kind":       relayErr.Kind.String(),
	})
	return relayErr
}

func (e *Executor) logCompletion(id domain.CorrelationID, path string, envelope *domain.ResponseEnvelope, networkTime, totalTime time.Duration) {
	e.logger.Log(ports.LogLevelInfo, "request completed", map[string]interface{}{
		"request_id":      id.Value(),
		"status":          envelope.Status,
		"body_size":       len(envelope.Body),
		"network_time_ms": networkTime.Milliseconds(),
		"total_time_ms":   totalTime.Milliseconds(),
	})

	if len(envelope.Body) > largeResponseBytes {
		e.logger.Log(ports.LogLevelWarn, "large response detected", map[string]interface{}{
			"request_id": id.Value(),
			"body_size":  len(envelope.Body),
		})
	}

	if envelope.Status >= 400 {
		e.logger.Log(ports.LogLevelError, "API returned error status", map[string]interface{}{
			"request_id":   id.Value(),
			"status":       envelope.Status,
			"body_preview": truncate(envelope.Body, errorPreviewLimit),
		})
	} else if strings.Contains(path, "/responses") {
		e.logger.Log(ports.LogLevelDebug, "response body preview", map[string]interface{}{
			"request_id":   id.Value(),
			"body_preview": truncate(envelope.Body, previewLimit),
		})
	}
}

// truncate bounds a body excerpt for log fields.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "... (truncated)"
}

// maskAPIKey masks an API key for log fields.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
