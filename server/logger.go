package server

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// LogContext provides context for log messages
type LogContext struct {
	RequestID string `json:"requestId,omitempty"`
	Model     string `json:"model,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// Logger provides structured logging with proper output streams
type Logger struct {
	debug   *log.Logger
	info    *log.Logger
	warn    *log.Logger
	error   *log.Logger
	fatal   *log.Logger
	useJSON bool
}

// JSONLogEntry represents a structured log entry for JSON log mode
type JSONLogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Context   *LogContext            `json:"context,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Global logger instance
var AppLogger *Logger

// NewLogger creates a new structured logger. Normal levels go to stdout,
// errors to stderr; LOG_FORMAT=json switches to JSON entries.
func NewLogger() *Logger {
	useJSON := os.Getenv("LOG_FORMAT") == "json"

	stdout := os.Stdout
	stderr := os.Stderr

	return &Logger{
		debug:   log.New(stdout, "[DEBUG] ", log.LstdFlags|log.Lshortfile),
		info:    log.New(stdout, "[INFO]  ", log.LstdFlags|log.Lshortfile),
		warn:    log.New(stdout, "[WARN]  ", log.LstdFlags|log.Lshortfile),
		error:   log.New(stderr, "[ERROR] ", log.LstdFlags|log.Lshortfile),
		fatal:   log.New(stderr, "[FATAL] ", log.LstdFlags|log.Lshortfile),
		useJSON: useJSON,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.useJSON {
		l.logJSON(DEBUG, format, nil, nil, v...)
	} else {
		l.debug.Printf(format, v...)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	if l.useJSON {
		l.logJSON(INFO, format, nil, nil, v...)
	} else {
		l.info.Printf(format, v...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	if l.useJSON {
		l.logJSON(WARN, format, nil, nil, v...)
	} else {
		l.warn.Printf(format, v...)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	if l.useJSON {
		l.logJSON(ERROR, format, nil, nil, v...)
	} else {
		l.error.Printf(format, v...)
	}
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(format string, v ...interface{}) {
	if l.useJSON {
		l.logJSON(FATAL, format, nil, nil, v...)
		os.Exit(1)
	} else {
		l.fatal.Fatalf(format, v...)
	}
}

// InfoWithFields logs an info message with additional fields
func (l *Logger) InfoWithFields(message string, fields map[string]interface{}) {
	if l.useJSON {
		l.logJSON(INFO, message, nil, fields)
	} else {
		l.info.Printf("%s | %v", message, fields)
	}
}

// ErrorWithFields logs an error message with additional fields
func (l *Logger) ErrorWithFields(message string, fields map[string]interface{}) {
	if l.useJSON {
		l.logJSON(ERROR, message, nil, fields)
	} else {
		l.error.Printf("%s | %v", message, fields)
	}
}

// InfoWithContext logs an info message with request context
func (l *Logger) InfoWithContext(ctx *LogContext, format string, v ...interface{}) {
	if l.useJSON {
		l.logJSON(INFO, format, ctx, nil, v...)
	} else {
		l.info.Printf("%s %s", contextPrefix(ctx), fmt.Sprintf(format, v...))
	}
}

// WarnWithContext logs a warning message with request context
func (l *Logger) WarnWithContext(ctx *LogContext, format string, v ...interface{}) {
	if l.useJSON {
		l.logJSON(WARN, format, ctx, nil, v...)
	} else {
		l.warn.Printf("%s %s", contextPrefix(ctx), fmt.Sprintf(format, v...))
	}
}

// ErrorWithContext logs an error message with request context
func (l *Logger) ErrorWithContext(ctx *LogContext, format string, v ...interface{}) {
	if l.useJSON {
		l.logJSON(ERROR, format, ctx, nil, v...)
	} else {
		l.error.Printf("%s %s", contextPrefix(ctx), fmt.Sprintf(format, v...))
	}
}

func contextPrefix(ctx *LogContext) string {
	if ctx == nil {
		return ""
	}
	prefix := ""
	if ctx.RequestID != "" {
		prefix += fmt.Sprintf("[req:%s]", ctx.RequestID)
	}
	if ctx.Model != "" {
		prefix += fmt.Sprintf("[model:%s]", ctx.Model)
	}
	if ctx.Operation != "" {
		prefix += fmt.Sprintf("[op:%s]", ctx.Operation)
	}
	return prefix
}

func (l *Logger) logJSON(level LogLevel, format string, ctx *LogContext, fields map[string]interface{}, v ...interface{}) {
	entry := JSONLogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   fmt.Sprintf(format, v...),
		Context:   ctx,
		Fields:    fields,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		l.error.Printf("failed to marshal log entry: %v", err)
		return
	}

	if level >= ERROR {
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintln(os.Stdout, string(data))
	}
}
