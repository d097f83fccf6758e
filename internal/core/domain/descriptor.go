package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ProxyConfig carries the optional per-scheme forward proxies supplied by the
// caller. An empty string means direct connection for that scheme.
type ProxyConfig struct {
	HTTPProxy  string `json:"http_proxy,omitempty"`
	HTTPSProxy string `json:"https_proxy,omitempty"`
}

// IsZero reports whether no proxy is configured for either scheme.
func (p ProxyConfig) IsZero() bool {
	return p.HTTPProxy == "" && p.HTTPSProxy == ""
}

// RequestDescriptor describes one outbound API request on behalf of the UI
// layer. Field names are the JSON contract of the UI bridge.
type RequestDescriptor struct {
	BaseURL           string            `json:"base_url"`
	APIKey            string            `json:"api_key"`
	Method            string            `json:"method"`
	Path              string            `json:"path"`
	Body              json.RawMessage   `json:"body,omitempty"`
	AdditionalHeaders map[string]string `json:"additional_headers,omitempty"`
	ProxyConfig       *ProxyConfig      `json:"proxy_config,omitempty"`
}

// HasBody reports whether the descriptor carries a JSON body. An explicit
// JSON null counts as absent, matching the UI bridge contract.
func (r RequestDescriptor) HasBody() bool {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 {
		return false
	}
	return !bytes.Equal(trimmed, []byte("null"))
}

// FileUploadDescriptor describes one file upload to the backend files
// endpoint. FileData is standard base64.
type FileUploadDescriptor struct {
	BaseURL           string            `json:"base_url"`
	APIKey            string            `json:"api_key"`
	FileData          string            `json:"file_data"`
	FileName          string            `json:"file_name"`
	Purpose           string            `json:"purpose"`
	AdditionalHeaders map[string]string `json:"additional_headers,omitempty"`
	ProxyConfig       *ProxyConfig      `json:"proxy_config,omitempty"`
}

// ResponseEnvelope is the normalized result of a relayed request. HTTP error
// statuses (4xx/5xx) are carried here, never as Go errors.
type ResponseEnvelope struct {
	Status  int               `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

var supportedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// NormalizeMethod uppercases method and validates it against the supported
// set (GET, POST, PUT, DELETE, PATCH).
func NormalizeMethod(method string) (string, error) {
	upper := strings.ToUpper(method)
	if !supportedMethods[upper] {
		return "", fmt.Errorf("unsupported HTTP method: %s", method)
	}
	return upper, nil
}

// JoinURL joins an API base URL and a request path with a single slash,
// tolerating any number of trailing slashes on the base and leading slashes
// on the path.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
