package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestCorrelationID_Creation_ValidatesInput tests CorrelationID creation with various inputs
func TestCorrelationID_Creation_ValidatesInput(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{
			name:        "ValidHex_ShouldSucceed",
			input:       "0123456789abcdef0123456789abcdef",
			expectError: false,
		},
		{
			name:        "Empty_ShouldFail",
			input:       "",
			expectError: true,
		},
		{
			name:        "TooShort_ShouldFail",
			input:       "abcdef",
			expectError: true,
		},
		{
			name:        "NonHex_ShouldFail",
			input:       "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewCorrelationID(tt.input)

			if tt.expectError {
				assert.Error(t, err)
				assert.Empty(t, id.Value(), "Invalid ID should have empty value")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.input, id.Value())
				assert.Equal(t, tt.input, id.String(), "String() should match Value()")
			}
		})
	}
}

// TestCorrelationID_Generation_IsUnique tests that generated IDs are unique
func TestCorrelationID_Generation_IsUnique(t *testing.T) {
	const numIDs = 1000
	ids := make(map[string]bool, numIDs)

	for i := 0; i < numIDs; i++ {
		id := GenerateCorrelationID()

		require.NotEmpty(t, id.Value(), "Generated ID should not be empty")
		require.False(t, ids[id.Value()], "Generated ID should be unique, got duplicate: %s", id.Value())

		ids[id.Value()] = true
	}
}

// TestCorrelationID_PropertyBased_GeneratedIDsRoundTrip tests that every
// generated ID passes its own validation
func TestCorrelationID_PropertyBased_GeneratedIDsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		generated := GenerateCorrelationID()

		assert.Len(t, generated.Value(), 32, "Generated ID should be 32 hex characters")

		parsed, err := NewCorrelationID(generated.Value())
		require.NoError(t, err, "Generated ID should satisfy validation")
		assert.Equal(t, generated.Value(), parsed.Value())
	})
}
