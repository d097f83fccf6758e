package logging

import (
	"log"
	"strings"
	"sync"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/ports"
)

// severity orders levels for threshold filtering. Unknown levels always log.
var severity = map[ports.LogLevel]int{
	ports.LogLevelDebug: 0,
	ports.LogLevelInfo:  1,
	ports.LogLevelWarn:  2,
	ports.LogLevelError: 3,
}

// ConsoleLogger is the process-wide logging sink. The host application
// constructs one at startup and injects it everywhere a LoggingGateway is
// needed; the relay core itself holds no logging state.
type ConsoleLogger struct {
	mu     sync.RWMutex
	logger *log.Logger
	level  ports.LogLevel
}

// NewConsoleLogger wraps an existing standard logger with level filtering.
func NewConsoleLogger(logger *log.Logger, level ports.LogLevel) *ConsoleLogger {
	return &ConsoleLogger{
		logger: logger,
		level:  level,
	}
}

// Log writes one leveled line when it clears the threshold.
func (l *ConsoleLogger) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	if !l.shouldLog(level) {
		return
	}
	label := strings.ToUpper(string(level))
	if fields != nil {
		l.logger.Printf("%s: %s (fields: %v)", label, message, fields)
	} else {
		l.logger.Printf("%s: %s", label, message)
	}
}

// LogError writes an error-level line carrying the underlying error.
func (l *ConsoleLogger) LogError(err error, message string, fields map[string]interface{}) {
	if !l.shouldLog(ports.LogLevelError) {
		return
	}
	if fields != nil {
		l.logger.Printf("ERROR: %s: %v (fields: %v)", message, err, fields)
	} else {
		l.logger.Printf("ERROR: %s: %v", message, err)
	}
}

// SetLogLevel changes the filtering threshold at runtime.
func (l *ConsoleLogger) SetLogLevel(level ports.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLogLevel returns the current filtering threshold.
func (l *ConsoleLogger) GetLogLevel() ports.LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *ConsoleLogger) shouldLog(level ports.LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rank, known := severity[level]
	threshold, knownThreshold := severity[l.level]
	if !known || !knownThreshold {
		return true
	}
	return rank >= threshold
}

var _ ports.LoggingGateway = (*ConsoleLogger)(nil)
