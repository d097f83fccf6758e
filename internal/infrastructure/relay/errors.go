package relay

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"
)

// Kind identifies the failure class surfaced to callers. Every executor
// failure is terminal; nothing is retried internally.
type Kind int

const (
	KindUnclassified Kind = iota

	// Configuration failures, detected before any network I/O.
	KindProxyConfig
	KindUnsupportedMethod
	KindPayloadDecode

	// Transport failures, detected at send time.
	KindDNS
	KindTLS
	KindProxyAuth
	KindConnection
	KindTimeout
	KindMalformedRequest
	KindResponseDecode

	// Post-transfer failures.
	KindBodyRead
	KindResponseTooLarge

	// Upload send failures (uploads report a coarser send classification).
	KindUploadFailed
)

// String returns the stable name used in log fields.
func (k Kind) String() string {
	switch k {
	case KindProxyConfig:
		return "proxy_configuration"
	case KindUnsupportedMethod:
		return "unsupported_method"
	case KindPayloadDecode:
		return "payload_decode"
	case KindDNS:
		return "dns"
	case KindTLS:
		return "tls"
	case KindProxyAuth:
		return "proxy_auth"
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindMalformedRequest:
		return "malformed_request"
	case KindResponseDecode:
		return "response_decode"
	case KindBodyRead:
		return "body_read"
	case KindResponseTooLarge:
		return "response_too_large"
	case KindUploadFailed:
		return "upload_failed"
	default:
		return "unclassified"
	}
}

// Error is the terminal failure returned by the executors. Error() renders
// the single descriptive string handed to the UI layer: correlation ID,
// cause, remediation hint when the class has one, elapsed time for
// transport-phase failures, and the active proxy description when one was
// configured.
type Error struct {
	Kind      Kind
	RequestID string
	Detail    string
	Hint      string
	Cause     error
	Elapsed   time.Duration
	ProxyInfo string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("request ")
	b.WriteString(e.RequestID)
	b.WriteString(": ")
	b.WriteString(e.Detail)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.Hint != "" {
		b.WriteString(" (")
		b.WriteString(e.Hint)
		b.WriteString(")")
	}
	if e.Elapsed > 0 {
		fmt.Fprintf(&b, " [elapsed: %s]", e.Elapsed.Round(time.Millisecond))
	}
	if e.ProxyInfo != "" {
		fmt.Fprintf(&b, " [%s]", e.ProxyInfo)
	}
	return b.String()
}

// Unwrap exposes the underlying cause to errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// classify maps a send-phase transport error to its failure class. Typed
// checks run first; classifyByMessage is the fallback.
func classify(err error) Kind {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}

	var (
		certVerify       *tls.CertificateVerificationError
		recordHeader     tls.RecordHeaderError
		unknownAuthority x509.UnknownAuthorityError
		certInvalid      x509.CertificateInvalidError
		hostnameErr      x509.HostnameError
	)
	if errors.As(err, &certVerify) || errors.As(err, &recordHeader) ||
		errors.As(err, &unknownAuthority) || errors.As(err, &certInvalid) ||
		errors.As(err, &hostnameErr) {
		return KindTLS
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED,
			syscall.EPIPE, syscall.EHOSTUNREACH, syscall.ENETUNREACH:
			return KindConnection
		}
	}

	return classifyByMessage(err)
}

// classifyByMessage is a best-effort substring mapping for failures the
// transport exposes only as text, notably CONNECT responses from forward
// proxies. Proxy authentication is checked before generic connection
// failures so 407s are not swallowed by the broader buckets.
func classifyByMessage(err error) Kind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "proxy authentication required") || strings.Contains(msg, "407"):
		return KindProxyAuth
	case strings.Contains(msg, "no such host") || strings.Contains(msg, "dns"):
		return KindDNS
	case strings.Contains(msg, "certificate") || strings.Contains(msg, "x509") ||
		strings.Contains(msg, "tls") || strings.Contains(msg, "ssl"):
		return KindTLS
	case strings.Contains(msg, "proxyconnect") || strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "no route to host") || strings.Contains(msg, "network is unreachable"):
		return KindConnection
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") ||
		strings.Contains(msg, "deadline exceeded"):
		return KindTimeout
	case strings.Contains(msg, "gzip") || strings.Contains(msg, "chunked") ||
		strings.Contains(msg, "malformed response"):
		return KindResponseDecode
	case strings.Contains(msg, "protocol scheme") || strings.Contains(msg, "invalid"):
		return KindMalformedRequest
	default:
		return KindUnclassified
	}
}

// kindText returns the operator-facing summary and remediation hint for a
// send-phase classification.
func kindText(k Kind) (detail, hint string) {
	switch k {
	case KindDNS:
		return "DNS resolution failed", "check domain name or DNS settings"
	case KindTLS:
		return "SSL/TLS error", "check certificate validity or security settings"
	case KindProxyAuth:
		return "proxy authentication required", "check proxy credentials"
	case KindConnection:
		return "connection failed", "check network or proxy settings"
	case KindTimeout:
		return "request timed out", ""
	case KindMalformedRequest:
		return "invalid request", ""
	case KindResponseDecode:
		return "response decode error", ""
	default:
		return "request failed", ""
	}
}
