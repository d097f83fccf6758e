package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// correlationIDLength is the hex length of a generated CorrelationID.
const correlationIDLength = 32

// CorrelationID is a value object tagging every log line and error string
// produced by a single executor invocation.
type CorrelationID struct {
	value string
}

// NewCorrelationID creates a CorrelationID from an existing value with validation.
func NewCorrelationID(value string) (CorrelationID, error) {
	if value == "" {
		return CorrelationID{}, fmt.Errorf("correlation ID cannot be empty")
	}
	if len(value) != correlationIDLength {
		return CorrelationID{}, fmt.Errorf("correlation ID must be %d hex characters, got %d", correlationIDLength, len(value))
	}
	if _, err := hex.DecodeString(value); err != nil {
		return CorrelationID{}, fmt.Errorf("correlation ID must be hex encoded: %w", err)
	}
	return CorrelationID{value: value}, nil
}

// GenerateCorrelationID creates a new unique CorrelationID.
func GenerateCorrelationID() CorrelationID {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return CorrelationID{value: hex.EncodeToString(bytes)}
}

// Value returns the string value of the CorrelationID.
func (c CorrelationID) Value() string {
	return c.value
}

// String implements the Stringer interface.
func (c CorrelationID) String() string {
	return c.value
}
