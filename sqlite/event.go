package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/benjamonnguyen/catfocus"
)

const (
	SelectAllEvents = "SELECT id, timestamp, event_name, tag, type, created_at, updated_at FROM session_events"
)

type eventEntity struct {
	ID          string
	TimestampMS int64
	EventName   string
	Tag         string
	Type        string
	CreatedAt   int64
	UpdatedAt   int64
}

type eventRepo struct {
	dbGetter txStdLib.DBGetter
	l        log.Logger
	now      func() time.Time
}

func NewEventRepo(dbGetter txStdLib.DBGetter, logger log.Logger) *eventRepo {
	return &eventRepo{
		dbGetter: dbGetter,
		l:        logger,
		now:      time.Now,
	}
}

func (r *eventRepo) InsertEvent(ctx context.Context, event catfocus.SessionEventRecord) (catfocus.ExistingSessionEventRecord, error) {
	if event.EventName == "" {
		return catfocus.ExistingSessionEventRecord{}, fmt.Errorf("provide required field 'EventName'")
	}
	if event.Type != catfocus.FocusSession && event.Type != catfocus.BreakSession {
		return catfocus.ExistingSessionEventRecord{}, fmt.Errorf("provide valid field 'Type'")
	}

	existingRecord := catfocus.ExistingSessionEventRecord{
		SessionEventRecord: event,
		ExistingRecord:     catfocus.NewExistingRecord[catfocus.SessionEventID](uuid.NewString(), r.now()),
	}
	e := mapToEventEntity(existingRecord)

	args := []any{
		e.ID,
		e.TimestampMS,
		e.EventName,
		e.Tag,
		e.Type,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO session_events (id, timestamp, event_name, tag, type, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating session event", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return catfocus.ExistingSessionEventRecord{}, err
	}

	return existingRecord, nil
}

func (r *eventRepo) DeleteEvent(ctx context.Context, id catfocus.SessionEventID) (catfocus.ExistingSessionEventRecord, error) {
	existing, err := r.GetEvent(ctx, id)
	if err != nil {
		return catfocus.ExistingSessionEventRecord{}, err
	}

	query := "DELETE FROM session_events WHERE id = ?"
	r.l.Debug("deleting session event", "query", query, "id", id)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, id); err != nil {
		return catfocus.ExistingSessionEventRecord{}, err
	}

	return existing, nil
}

func (r *eventRepo) GetEvent(ctx context.Context, id catfocus.SessionEventID) (catfocus.ExistingSessionEventRecord, error) {
	if id == "" {
		return catfocus.ExistingSessionEventRecord{}, fmt.Errorf("provide id")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllEvents), id,
	)
	return extractEvent(row)
}

func (r *eventRepo) ListEvents(ctx context.Context, sortBy catfocus.EventSortField, desc bool) ([]catfocus.ExistingSessionEventRecord, error) {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	query := fmt.Sprintf("%s ORDER BY %s %s, rowid %s", SelectAllEvents, eventOrderColumn(sortBy), dir, dir)
	r.l.Debug("listing session events", "query", query)
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var events []catfocus.ExistingSessionEventRecord
	for rows.Next() {
		event, err := extractEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func eventOrderColumn(f catfocus.EventSortField) string {
	switch f {
	case catfocus.SortEventsByName:
		return "lower(event_name)"
	case catfocus.SortEventsByTag:
		return "lower(tag)"
	case catfocus.SortEventsByType:
		return "type"
	default:
		return "timestamp"
	}
}

func extractEvent(s scannable) (catfocus.ExistingSessionEventRecord, error) {
	var e eventEntity
	if err := s.Scan(&e.ID, &e.TimestampMS, &e.EventName, &e.Tag, &e.Type, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catfocus.ExistingSessionEventRecord{}, ErrNotFound
		}
		return catfocus.ExistingSessionEventRecord{}, err
	}
	return mapToExistingEventRecord(e)
}

func mapToEventEntity(event catfocus.ExistingSessionEventRecord) eventEntity {
	return eventEntity{
		ID:          string(event.ID),
		TimestampMS: event.Timestamp.UnixMilli(),
		EventName:   event.EventName,
		Tag:         event.Tag,
		Type:        event.Type.String(),
		CreatedAt:   event.CreatedAt.Unix(),
		UpdatedAt:   event.UpdatedAt.Unix(),
	}
}

func mapToExistingEventRecord(e eventEntity) (catfocus.ExistingSessionEventRecord, error) {
	t, ok := catfocus.ParseSessionType(e.Type)
	if !ok {
		return catfocus.ExistingSessionEventRecord{}, fmt.Errorf("invalid session type %q for event %s", e.Type, e.ID)
	}
	return catfocus.ExistingSessionEventRecord{
		ExistingRecord: catfocus.ExistingRecord[catfocus.SessionEventID]{
			ID:        catfocus.SessionEventID(e.ID),
			CreatedAt: time.Unix(e.CreatedAt, 0),
			UpdatedAt: time.Unix(e.UpdatedAt, 0),
		},
		SessionEventRecord: catfocus.SessionEventRecord{
			Timestamp: time.UnixMilli(e.TimestampMS),
			EventName: e.EventName,
			Tag:       e.Tag,
			Type:      t,
		},
	}, nil
}
