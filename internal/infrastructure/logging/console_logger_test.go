package logging

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/ports"
)

func newBufferedLogger(level ports.LogLevel) (*ConsoleLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewConsoleLogger(log.New(&buf, "", 0), level), &buf
}

// TestConsoleLogger_RendersLevelAndFields tests the line format shared with
// the rest of the app
func TestConsoleLogger_RendersLevelAndFields(t *testing.T) {
	logger, buf := newBufferedLogger(ports.LogLevelDebug)

	logger.Log(ports.LogLevelInfo, "request completed", map[string]interface{}{"status": 200})
	assert.Equal(t, "INFO: request completed (fields: map[status:200])\n", buf.String())

	buf.Reset()
	logger.Log(ports.LogLevelWarn, "large response detected", nil)
	assert.Equal(t, "WARN: large response detected\n", buf.String())
}

// TestConsoleLogger_LogErrorCarriesCause tests that the error value appears
// on the line
func TestConsoleLogger_LogErrorCarriesCause(t *testing.T) {
	logger, buf := newBufferedLogger(ports.LogLevelDebug)

	logger.LogError(errors.New("dial tcp: connection refused"), "request failed", map[string]interface{}{"kind": "connection"})

	out := buf.String()
	assert.Contains(t, out, "ERROR: request failed")
	assert.Contains(t, out, "dial tcp: connection refused")
	assert.Contains(t, out, "kind:connection")
}

// TestConsoleLogger_FiltersBelowThreshold tests severity ranking across all
// level pairs
func TestConsoleLogger_FiltersBelowThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold ports.LogLevel
		level     ports.LogLevel
		expectLog bool
	}{
		{name: "DebugPassesAtDebug", threshold: ports.LogLevelDebug, level: ports.LogLevelDebug, expectLog: true},
		{name: "DebugDroppedAtInfo", threshold: ports.LogLevelInfo, level: ports.LogLevelDebug, expectLog: false},
		{name: "InfoPassesAtInfo", threshold: ports.LogLevelInfo, level: ports.LogLevelInfo, expectLog: true},
		{name: "InfoDroppedAtWarn", threshold: ports.LogLevelWarn, level: ports.LogLevelInfo, expectLog: false},
		{name: "WarnDroppedAtError", threshold: ports.LogLevelError, level: ports.LogLevelWarn, expectLog: false},
		{name: "ErrorPassesAtError", threshold: ports.LogLevelError, level: ports.LogLevelError, expectLog: true},
		{name: "ErrorPassesAtDebug", threshold: ports.LogLevelDebug, level: ports.LogLevelError, expectLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedLogger(tt.threshold)
			logger.Log(tt.level, "probe", nil)
			if tt.expectLog {
				assert.NotEmpty(t, buf.String(), "level %s should pass threshold %s", tt.level, tt.threshold)
			} else {
				assert.Empty(t, buf.String(), "level %s should be dropped at threshold %s", tt.level, tt.threshold)
			}
		})
	}
}

// TestConsoleLogger_LogErrorRespectsThreshold tests that even errors are
// droppable only by an unknown threshold, never a known one
func TestConsoleLogger_LogErrorRespectsThreshold(t *testing.T) {
	logger, buf := newBufferedLogger(ports.LogLevelError)
	logger.LogError(errors.New("boom"), "request failed", nil)
	assert.NotEmpty(t, buf.String(), "errors always clear an error threshold")
}

// TestConsoleLogger_SetLogLevel tests runtime threshold changes
func TestConsoleLogger_SetLogLevel(t *testing.T) {
	logger, buf := newBufferedLogger(ports.LogLevelError)

	logger.Log(ports.LogLevelDebug, "probe", nil)
	assert.Empty(t, buf.String())

	logger.SetLogLevel(ports.LogLevelDebug)
	assert.Equal(t, ports.LogLevelDebug, logger.GetLogLevel())

	logger.Log(ports.LogLevelDebug, "probe", nil)
	assert.Contains(t, buf.String(), "DEBUG: probe")
}

// TestConsoleLogger_UnknownLevelAlwaysLogs tests the fail-open rule for
// levels outside the known set
func TestConsoleLogger_UnknownLevelAlwaysLogs(t *testing.T) {
	logger, buf := newBufferedLogger(ports.LogLevelError)
	logger.Log(ports.LogLevel("trace"), "probe", nil)
	assert.Contains(t, buf.String(), "TRACE: probe")
}
