package main

import (
	"context"
	"fmt"

	"github.com/Thiht/transactor"
	"github.com/benjamonnguyen/catfocus"
	"github.com/charmbracelet/log"
)

const (
	focusEventName = "Focus Session"
	breakEventName = "Break Session"
)

// EventLog is the user-facing session history. Entries have no dedup
// constraint and are only removed by explicit deletion.
type EventLog interface {
	Add(context.Context, catfocus.SessionEventRecord) (catfocus.ExistingSessionEventRecord, error)
	Delete(context.Context, catfocus.SessionEventID) (catfocus.ExistingSessionEventRecord, error)
	List(ctx context.Context, sortBy catfocus.EventSortField, desc bool) ([]catfocus.ExistingSessionEventRecord, error)
}

type eventLog struct {
	repo catfocus.EventRepo
	tx   transactor.Transactor
	l    log.Logger
}

func NewEventLog(repo catfocus.EventRepo, tx transactor.Transactor, l log.Logger) EventLog {
	return &eventLog{
		repo: repo,
		tx:   tx,
		l:    l,
	}
}

// completionEvent names the history entry for a finished session. A
// non-empty task overrides the default name.
func completionEvent(ev catfocus.SessionCompleted, task string) catfocus.SessionEventRecord {
	name := task
	if name == "" {
		name = focusEventName
		if ev.SessionType == catfocus.BreakSession {
			name = breakEventName
		}
	}
	return catfocus.SessionEventRecord{
		Timestamp: ev.CompletedAt,
		EventName: name,
		Tag:       ev.SessionType.String(),
		Type:      ev.SessionType,
	}
}

func (el *eventLog) Add(ctx context.Context, r catfocus.SessionEventRecord) (catfocus.ExistingSessionEventRecord, error) {
	var inserted catfocus.ExistingSessionEventRecord
	err := el.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = el.repo.InsertEvent(ctx, r)
		return err
	})
	if err != nil {
		return catfocus.ExistingSessionEventRecord{}, fmt.Errorf("failed to add event: %w", err)
	}
	el.l.Debug("added session event", "id", inserted.ID, "name", inserted.EventName)
	return inserted, nil
}

func (el *eventLog) Delete(ctx context.Context, id catfocus.SessionEventID) (catfocus.ExistingSessionEventRecord, error) {
	var deleted catfocus.ExistingSessionEventRecord
	err := el.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = el.repo.DeleteEvent(ctx, id)
		return err
	})
	if err != nil {
		return catfocus.ExistingSessionEventRecord{}, fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return deleted, nil
}

func (el *eventLog) List(ctx context.Context, sortBy catfocus.EventSortField, desc bool) ([]catfocus.ExistingSessionEventRecord, error) {
	return el.repo.ListEvents(ctx, sortBy, desc)
}
