package relay

import (
	"net/http"
	"unicode/utf8"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
)

// MaxResponseBytes is the hard ceiling on relayed response bodies. Bodies
// are read in full before the check so the actual size can be reported;
// oversize payloads are then discarded rather than returned.
const MaxResponseBytes = 50 * 1024 * 1024

// normalizeHeaders flattens response headers into the envelope's name→value
// map. Values that are not valid UTF-8 are dropped without failing the call;
// when a header repeats, the last decodable value wins.
func normalizeHeaders(header http.Header) map[string]string {
	headers := make(map[string]string, len(header))
	for key, values := range header {
		for _, value := range values {
			if !utf8.ValidString(value) {
				continue
			}
			headers[key] = value
		}
	}
	return headers
}

// newEnvelope assembles the normalized result handed back to callers.
func newEnvelope(status int, body []byte, header http.Header) *domain.ResponseEnvelope {
	return &domain.ResponseEnvelope{
		Status:  status,
		Body:    string(body),
		Headers: normalizeHeaders(header),
	}
}
