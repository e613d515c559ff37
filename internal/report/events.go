package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventIndex   EventType = "index"
	EventSearch  EventType = "search"
	EventBatch   EventType = "batch"
	EventCache   EventType = "cache"
	EventRewrite EventType = "rewrite"
	EventRemove  EventType = "remove"
	EventSkip    EventType = "skip"
	EventError   EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single event in the resolver pipeline
type Event struct {
	Timestamp   time.Time         `json:"ts"`
	RunID       string            `json:"run_id"`
	Level       EventLevel        `json:"level"`
	Event       EventType         `json:"event"`
	QueryPath   string            `json:"query_path,omitempty"`
	FoundPath   string            `json:"found_path,omitempty"`
	PlaylistID  string            `json:"playlist_id,omitempty"`
	Stage       string            `json:"stage,omitempty"`
	Similarity  float64           `json:"similarity,omitempty"`
	Action      string            `json:"action,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	Count       int               `json:"count,omitempty"`
	Duration    int64             `json:"duration_ms,omitempty"`
	Error       string            `json:"error,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	minLevel EventLevel
	runID    string
}

// NewEventLogger creates a new event logger with a minimum log level
// minLevel determines which events are written (e.g., LevelInfo skips LevelDebug)
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("events-%s.jsonl", timestamp)
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		minLevel: minLevel,
		runID:    uuid.NewString(),
	}, nil
}

// RunID returns the identifier shared by every event this logger writes,
// used to correlate a JSONL log with the run log envelope it belongs to.
func (l *EventLogger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RunID == "" {
		event.RunID = l.runID
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogIndex logs an indexing pass completing over a library root.
func (l *EventLogger) LogIndex(root string, totalFiles, errorCount int, duration time.Duration) error {
	return l.Log(&Event{
		Level:    LevelInfo,
		Event:    EventIndex,
		Count:    totalFiles,
		Duration: duration.Milliseconds(),
		Extra: map[string]string{
			"root":        root,
			"error_count": fmt.Sprintf("%d", errorCount),
		},
	})
}

// LogSearch logs one resolved (or unresolved) query within a searchMany run.
func (l *EventLogger) LogSearch(queryPath, foundPath, stage string, similarity float64, duration time.Duration, err error) error {
	level := LevelInfo
	errMsg := ""
	if err != nil {
		level = LevelError
		errMsg = err.Error()
	}
	return l.Log(&Event{
		Level:      level,
		Event:      EventSearch,
		QueryPath:  queryPath,
		FoundPath:  foundPath,
		Stage:      stage,
		Similarity: similarity,
		Duration:   duration.Milliseconds(),
		Error:      errMsg,
	})
}

// LogBatch logs a completed searchMany run (batch of queries).
func (l *EventLogger) LogBatch(queryCount int, duration time.Duration) error {
	return l.Log(&Event{
		Level:    LevelInfo,
		Event:    EventBatch,
		Count:    queryCount,
		Duration: duration.Milliseconds(),
	})
}

// LogCache logs a result-cache hit, insert, or eviction.
func (l *EventLogger) LogCache(action string, count int) error {
	return l.Log(&Event{
		Level:  LevelDebug,
		Event:  EventCache,
		Action: action,
		Count:  count,
	})
}

// LogRewrite logs one playlist updated by the global rewriter.
func (l *EventLogger) LogRewrite(playlistID string, songsUpdated int) error {
	return l.Log(&Event{
		Level:      LevelInfo,
		Event:      EventRewrite,
		PlaylistID: playlistID,
		Count:      songsUpdated,
	})
}

// LogRemove logs one playlist a song reference was removed from.
func (l *EventLogger) LogRemove(playlistID string, removedCount int) error {
	return l.Log(&Event{
		Level:      LevelInfo,
		Event:      EventRemove,
		PlaylistID: playlistID,
		Count:      removedCount,
	})
}

// LogSkip logs a playlist skipped during enumeration or rewrite (§7 policy:
// per-playlist errors are logged with the offending path and skipped).
func (l *EventLogger) LogSkip(playlistID, reason string) error {
	return l.Log(&Event{
		Level:      LevelWarning,
		Event:      EventSkip,
		PlaylistID: playlistID,
		Reason:     reason,
	})
}

// LogError logs an error event
func (l *EventLogger) LogError(event EventType, queryPath string, err error) error {
	return l.Log(&Event{
		Level:     LevelError,
		Event:     event,
		QueryPath: queryPath,
		Error:     err.Error(),
	})
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// NullLogger returns a no-op event logger
func NullLogger() *EventLogger {
	return nil
}
