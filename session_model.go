package catfocus

import (
	"context"
	"fmt"
	"time"
)

type SessionType uint8

const (
	_ SessionType = iota
	FocusSession
	BreakSession
)

func (t SessionType) String() string {
	switch t {
	case FocusSession:
		return "focus"
	case BreakSession:
		return "break"
	default:
		panic(fmt.Sprintf("no matching enum for SessionType: %d", uint8(t)))
	}
}

// Other returns the type a session flips to on completion or switch.
func (t SessionType) Other() SessionType {
	if t == FocusSession {
		return BreakSession
	}
	return FocusSession
}

func ParseSessionType(s string) (SessionType, bool) {
	switch s {
	case "focus":
		return FocusSession, true
	case "break":
		return BreakSession, true
	default:
		return 0, false
	}
}

// SessionCompleted is emitted exactly once when a countdown crosses zero.
type SessionCompleted struct {
	SessionType SessionType
	Duration    time.Duration
	CompletedAt time.Time
}

type SessionEventID string

type SessionEventRecord struct {
	Timestamp time.Time
	EventName string
	Tag       string
	Type      SessionType
}

type ExistingSessionEventRecord struct {
	ExistingRecord[SessionEventID]
	SessionEventRecord
}

type EventSortField uint8

const (
	SortEventsByTimestamp EventSortField = iota
	SortEventsByName
	SortEventsByTag
	SortEventsByType
)

func ParseEventSortField(s string) (EventSortField, bool) {
	switch s {
	case "timestamp", "":
		return SortEventsByTimestamp, true
	case "eventName", "name":
		return SortEventsByName, true
	case "tag":
		return SortEventsByTag, true
	case "type":
		return SortEventsByType, true
	default:
		return 0, false
	}
}

type EventRepo interface {
	InsertEvent(context.Context, SessionEventRecord) (ExistingSessionEventRecord, error)
	DeleteEvent(context.Context, SessionEventID) (ExistingSessionEventRecord, error)
	GetEvent(context.Context, SessionEventID) (ExistingSessionEventRecord, error)
	ListEvents(ctx context.Context, sortBy EventSortField, desc bool) ([]ExistingSessionEventRecord, error)
}
