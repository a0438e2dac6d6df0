package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/benjamonnguyen/catfocus"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEventRepo is an in-memory catfocus.EventRepo
type mockEventRepo struct {
	events    []catfocus.ExistingSessionEventRecord
	nextID    int
	insertErr error

	lastSort catfocus.EventSortField
	lastDesc bool
}

func (m *mockEventRepo) InsertEvent(_ context.Context, r catfocus.SessionEventRecord) (catfocus.ExistingSessionEventRecord, error) {
	if m.insertErr != nil {
		return catfocus.ExistingSessionEventRecord{}, m.insertErr
	}
	m.nextID++
	e := catfocus.ExistingSessionEventRecord{
		ExistingRecord:     catfocus.NewExistingRecord[catfocus.SessionEventID](fmt.Sprintf("event-%d", m.nextID), testNow),
		SessionEventRecord: r,
	}
	m.events = append(m.events, e)
	return e, nil
}

func (m *mockEventRepo) DeleteEvent(_ context.Context, id catfocus.SessionEventID) (catfocus.ExistingSessionEventRecord, error) {
	for i, e := range m.events {
		if e.ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return e, nil
		}
	}
	return catfocus.ExistingSessionEventRecord{}, catfocus.ErrNotFound
}

func (m *mockEventRepo) GetEvent(_ context.Context, id catfocus.SessionEventID) (catfocus.ExistingSessionEventRecord, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return catfocus.ExistingSessionEventRecord{}, catfocus.ErrNotFound
}

func (m *mockEventRepo) ListEvents(_ context.Context, sortBy catfocus.EventSortField, desc bool) ([]catfocus.ExistingSessionEventRecord, error) {
	m.lastSort, m.lastDesc = sortBy, desc
	return m.events, nil
}

var _ catfocus.EventRepo = (*mockEventRepo)(nil)

func TestCompletionEvent(t *testing.T) {
	t.Parallel()

	breakCompleted := catfocus.SessionCompleted{
		SessionType: catfocus.BreakSession,
		Duration:    5 * time.Minute,
		CompletedAt: testNow,
	}

	tests := []struct {
		name     string
		ev       catfocus.SessionCompleted
		task     string
		expected catfocus.SessionEventRecord
	}{
		{
			name:     "focus",
			ev:       focusCompleted,
			expected: catfocus.SessionEventRecord{Timestamp: testNow, EventName: "Focus Session", Tag: "focus", Type: catfocus.FocusSession},
		},
		{
			name:     "break",
			ev:       breakCompleted,
			expected: catfocus.SessionEventRecord{Timestamp: testNow, EventName: "Break Session", Tag: "break", Type: catfocus.BreakSession},
		},
		{
			name:     "task name",
			ev:       focusCompleted,
			task:     "Write report",
			expected: catfocus.SessionEventRecord{Timestamp: testNow, EventName: "Write report", Tag: "focus", Type: catfocus.FocusSession},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, completionEvent(tt.ev, tt.task))
		})
	}
}

func TestEventLog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockEventRepo{}
	el := NewEventLog(repo, &mockTransactor{}, *log.Default())

	first, err := el.Add(ctx, completionEvent(focusCompleted, ""))
	require.NoError(t, err)
	_, err = el.Add(ctx, completionEvent(focusCompleted, ""))
	require.NoError(t, err, "events have no dedup constraint")

	events, err := el.List(ctx, catfocus.SortEventsByTag, true)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, catfocus.SortEventsByTag, repo.lastSort)
	assert.True(t, repo.lastDesc)

	deleted, err := el.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, deleted.ID)
	assert.Len(t, repo.events, 1)

	_, err = el.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, catfocus.ErrNotFound)
}

func TestEventLog_AddError(t *testing.T) {
	t.Parallel()

	repo := &mockEventRepo{insertErr: errors.New("disk full")}
	el := NewEventLog(repo, &mockTransactor{}, *log.Default())

	_, err := el.Add(context.Background(), completionEvent(focusCompleted, ""))
	assert.ErrorContains(t, err, "disk full")
}
