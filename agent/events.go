package agent

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QueryEventType tags the lifecycle events emitted around tool invocations.
type QueryEventType string

// Emitted event types.
const (
	QueryStart   QueryEventType = "query:start"
	QuerySuccess QueryEventType = "query:success"
	QueryFailed  QueryEventType = "query:failed"
)

// QueryEvent describes one tool invocation lifecycle transition.
type QueryEvent struct {
	ID        string         `json:"id"`
	Type      QueryEventType `json:"type"`
	Tool      string         `json:"tool"`
	Query     string         `json:"query"`
	Records   int            `json:"records"`
	Error     *string        `json:"error,omitempty"`
	Timestamp int64          `json:"timestamp"`
	Duration  *int64         `json:"duration,omitempty"`
}

// EventCallback handles an emitted query event.
type EventCallback func(ctx context.Context, event QueryEvent) error

func newQueryEvent(eventType QueryEventType, tool, query string, records int, err *string, startTime time.Time) QueryEvent {
	var duration *int64
	if !startTime.IsZero() {
		d := time.Since(startTime).Milliseconds()
		duration = &d
	}
	return QueryEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Tool:      tool,
		Query:     query,
		Records:   records,
		Error:     err,
		Timestamp: time.Now().UnixMilli(),
		Duration:  duration,
	}
}
