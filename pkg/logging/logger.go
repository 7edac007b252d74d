// Package logging writes structured JSONL events for a UI session.
package logging

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel converts a config string into a Level.
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	if level == "warning" {
		level = LevelWarn
	}
	if _, ok := levelRank[level]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Category represents the subsystem generating the log
type Category string

const (
	CategoryUI       Category = "ui"
	CategoryModal    Category = "modal"
	CategoryEvent    Category = "event"
	CategorySession  Category = "session"
	CategoryTerminal Category = "terminal"
	CategoryConfig   Category = "config"
)

// Event represents a structured log event
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Category  Category       `json:"category"`
	EventType string         `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Message   string         `json:"message,omitempty"`
}

// Logger writes structured events to a per-session file and, for errors,
// to a shared errors.jsonl. A nil *Logger discards everything.
type Logger struct {
	sessionID   string
	baseDir     string
	sessionFile *os.File
	errorFile   *os.File
	mu          sync.Mutex
	minLevel    Level
}

// NewSessionID returns a sortable unique session identifier.
func NewSessionID() string {
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String())
}

// SessionPath returns where the session log for sessionID lives under baseDir.
func SessionPath(baseDir, sessionID string) string {
	return filepath.Join(baseDir, "sessions", sessionID+".jsonl")
}

// NewLogger creates a new structured logger
func NewLogger(baseDir, sessionID string) (*Logger, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	sessionsDir := filepath.Join(baseDir, "sessions")
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	sessionFile, err := os.OpenFile(
		SessionPath(baseDir, sessionID),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}

	errorFile, err := os.OpenFile(
		filepath.Join(baseDir, "errors.jsonl"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		sessionFile.Close()
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}

	return &Logger{
		sessionID:   sessionID,
		baseDir:     baseDir,
		sessionFile: sessionFile,
		errorFile:   errorFile,
		minLevel:    LevelInfo,
	}, nil
}

// SessionID returns the id stamped on events that don't carry one.
func (l *Logger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.sessionID
}

// SetMinLevel sets the minimum log level
func (l *Logger) SetMinLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// Log writes an event to appropriate destinations
func (l *Logger) Log(event Event) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.SessionID == "" {
		event.SessionID = l.sessionID
	}

	if !l.shouldLog(event.Level) {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	data = append(data, '\n')

	if l.sessionFile != nil {
		if _, err := l.sessionFile.Write(data); err != nil {
			return fmt.Errorf("failed to write to session log: %w", err)
		}
	}

	if event.Level == LevelError && l.errorFile != nil {
		if _, err := l.errorFile.Write(data); err != nil {
			return fmt.Errorf("failed to write to error log: %w", err)
		}
	}

	return nil
}

func (l *Logger) shouldLog(level Level) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

// Debug logs a debug event
func (l *Logger) Debug(category Category, eventType string, message string, details map[string]any) error {
	return l.Log(Event{
		Level:     LevelDebug,
		Category:  category,
		EventType: eventType,
		Message:   message,
		Details:   details,
	})
}

// Info logs an info event
func (l *Logger) Info(category Category, eventType string, message string, details map[string]any) error {
	return l.Log(Event{
		Level:     LevelInfo,
		Category:  category,
		EventType: eventType,
		Message:   message,
		Details:   details,
	})
}

// Warn logs a warning event
func (l *Logger) Warn(category Category, eventType string, message string, details map[string]any) error {
	return l.Log(Event{
		Level:     LevelWarn,
		Category:  category,
		EventType: eventType,
		Message:   message,
		Details:   details,
	})
}

// Error logs an error event
func (l *Logger) Error(category Category, eventType string, message string, details map[string]any) error {
	return l.Log(Event{
		Level:     LevelError,
		Category:  category,
		EventType: eventType,
		Message:   message,
		Details:   details,
	})
}

// Close closes all log files
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	if l.sessionFile != nil {
		if err := l.sessionFile.Close(); err != nil {
			errs = append(errs, err)
		}
		l.sessionFile = nil
	}
	if l.errorFile != nil {
		if err := l.errorFile.Close(); err != nil {
			errs = append(errs, err)
		}
		l.errorFile = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing log files: %v", errs)
	}
	return nil
}

// ReadRecentEvents reads the last count events from a JSONL log. Lines that
// fail to decode are skipped.
func ReadRecentEvents(logPath string, count int) ([]Event, error) {
	file, err := os.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	defer file.Close()

	if count <= 0 {
		return []Event{}, nil
	}

	ring := make([]Event, 0, count)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue
		}
		if len(ring) == count {
			copy(ring, ring[1:])
			ring = ring[:count-1]
		}
		ring = append(ring, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	return ring, nil
}
