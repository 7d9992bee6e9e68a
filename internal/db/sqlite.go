// Package db provides the SQLite-backed event repository.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

var (
	// ErrCommitConflict is returned when a session changed between plan
	// resolution and commit. Nothing is applied; the caller discards its
	// local schedule and reloads.
	ErrCommitConflict = errors.New("schedule changed since the move was planned")

	// ErrScheduleOverlap is returned when an insert, update, or commit would
	// leave two scheduled sessions overlapping in the same room.
	ErrScheduleOverlap = errors.New("sessions overlap in the same room")
)

// Instants are stored as RFC3339 UTC text, so lexicographic comparison in
// SQL matches chronological order.
const timeFormat = time.RFC3339

// SQLite implements event.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateSession adds a new session.
// Returns ErrScheduleOverlap if the session conflicts with a scheduled
// session already in its room.
func (s *SQLite) CreateSession(ctx context.Context, sess *event.Session) error {
	if err := checkRoomConflict(ctx, s.db, sess); err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (
			id, title, speakers, description, room_id, starts_at, ends_at,
			status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		sess.ID,
		sess.Title,
		encodeSpeakers(sess.Speakers),
		nullString(sess.Description),
		nullString(sess.RoomID),
		formatInstant(sess.StartsAt),
		formatInstant(sess.EndsAt),
		sess.Status,
		formatInstant(sess.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	return nil
}

// CreateSessions adds multiple sessions in a batch using a transaction.
// Returns ErrScheduleOverlap if any session conflicts with an existing one
// or with another session in the batch.
func (s *SQLite) CreateSessions(ctx context.Context, sessions []*event.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	// First, check for conflicts between the new sessions themselves
	if err := checkBatchConflict(sessions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Check for conflicts with sessions already in the database
	for _, sess := range sessions {
		if err := checkRoomConflict(ctx, tx, sess); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO sessions (
			id, title, speakers, description, room_id, starts_at, ends_at,
			status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sess := range sessions {
		_, err := stmt.ExecContext(ctx,
			sess.ID,
			sess.Title,
			encodeSpeakers(sess.Speakers),
			nullString(sess.Description),
			nullString(sess.RoomID),
			formatInstant(sess.StartsAt),
			formatInstant(sess.EndsAt),
			sess.Status,
			formatInstant(sess.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting session %q: %w", sess.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

const sessionColumns = `id, title, speakers, description, room_id, starts_at, ends_at, status, created_at`

// GetSession retrieves a session by ID. Returns nil, nil when absent.
func (s *SQLite) GetSession(ctx context.Context, id string) (*event.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`

	sess, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	return sess, nil
}

// UpdateSession rewrites a session's editable fields in place.
// Returns ErrScheduleOverlap if the new interval conflicts with another
// scheduled session in the same room.
func (s *SQLite) UpdateSession(ctx context.Context, sess *event.Session) error {
	if err := checkRoomConflict(ctx, s.db, sess); err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET title = ?, speakers = ?, description = ?, room_id = ?,
		    starts_at = ?, ends_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		sess.Title,
		encodeSpeakers(sess.Speakers),
		nullString(sess.Description),
		nullString(sess.RoomID),
		formatInstant(sess.StartsAt),
		formatInstant(sess.EndsAt),
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", event.ErrSessionNotFound, sess.ID)
	}

	return nil
}

// CancelSession marks a session as cancelled. The interval is kept so the
// session can still be listed, but it leaves the grid and all conflict
// checks.
func (s *SQLite) CancelSession(ctx context.Context, id string) error {
	query := `UPDATE sessions SET status = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, event.StatusCancelled, id)
	if err != nil {
		return fmt.Errorf("cancelling session: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", event.ErrSessionNotFound, id)
	}

	return nil
}

// ListSessionsBetween returns sessions with a start in [from, to), earliest
// first.
func (s *SQLite) ListSessionsBetween(ctx context.Context, from, to time.Time) ([]*event.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE starts_at >= ? AND starts_at < ?
		ORDER BY starts_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, formatInstant(from), formatInstant(to))
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*event.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// CreateRoom adds a new room.
func (s *SQLite) CreateRoom(ctx context.Context, r *event.Room) error {
	query := `INSERT INTO rooms (id, name, sort_order, created_at) VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, r.ID, r.Name, r.SortOrder, formatInstant(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting room: %w", err)
	}

	return nil
}

// GetRoom retrieves a room by ID. Returns nil, nil when absent.
func (s *SQLite) GetRoom(ctx context.Context, id string) (*event.Room, error) {
	query := `SELECT id, name, sort_order, created_at FROM rooms WHERE id = ?`

	r, err := scanRoom(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying room: %w", err)
	}

	return r, nil
}

// ListRooms returns all rooms in display order.
func (s *SQLite) ListRooms(ctx context.Context) ([]*event.Room, error) {
	query := `SELECT id, name, sort_order, created_at FROM rooms ORDER BY sort_order, name, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rooms []*event.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		rooms = append(rooms, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rooms: %w", err)
	}

	return rooms, nil
}

// CommitReschedule applies a resolved plan atomically in one transaction.
//
// Every shifted session must still match the interval the plan was computed
// against, and the moved session must still sit in its original room, or the
// whole commit fails with ErrCommitConflict and nothing is applied. After
// the shifts are written, the destination room's day is re-read and the
// transaction is rejected with ErrScheduleOverlap if any two scheduled
// sessions still overlap.
func (s *SQLite) CommitReschedule(ctx context.Context, plan *event.ShiftPlan) error {
	if plan.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 1. Verify every shifted session still matches the plan's basis
	basisQuery := `SELECT room_id, starts_at, ends_at, status FROM sessions WHERE id = ?`
	for _, sh := range plan.Shifts {
		var (
			roomID   sql.NullString
			startsAt string
			endsAt   string
			status   event.Status
		)

		err := tx.QueryRowContext(ctx, basisQuery, sh.SessionID).Scan(&roomID, &startsAt, &endsAt, &status)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: session %s no longer exists", ErrCommitConflict, sh.SessionID)
		}
		if err != nil {
			return fmt.Errorf("querying session %s: %w", sh.SessionID, err)
		}

		// Cascaded neighbors were read from the destination room; only the
		// moved session itself may be coming from somewhere else.
		wantRoom := plan.NewRoomID
		if sh.SessionID == plan.SessionID {
			wantRoom = plan.PrevRoomID
		}

		if status != event.StatusScheduled || roomID.String != wantRoom ||
			startsAt != formatInstant(sh.PrevStart) || endsAt != formatInstant(sh.PrevEnd) {
			return fmt.Errorf("%w: session %s changed underneath the plan", ErrCommitConflict, sh.SessionID)
		}
	}

	// 2. Apply the shifts in plan order
	shiftQuery := `UPDATE sessions SET starts_at = ?, ends_at = ? WHERE id = ?`
	moveQuery := `UPDATE sessions SET starts_at = ?, ends_at = ?, room_id = ? WHERE id = ?`
	for _, sh := range plan.Shifts {
		if sh.SessionID == plan.SessionID {
			_, err = tx.ExecContext(ctx, moveQuery,
				formatInstant(sh.NewStart), formatInstant(sh.NewEnd), nullString(plan.NewRoomID), sh.SessionID)
		} else {
			_, err = tx.ExecContext(ctx, shiftQuery,
				formatInstant(sh.NewStart), formatInstant(sh.NewEnd), sh.SessionID)
		}
		if err != nil {
			return fmt.Errorf("shifting session %s: %w", sh.SessionID, err)
		}
	}

	// 3. Final-state validation of the destination room's day
	if err := checkDayState(ctx, tx, plan.NewRoomID, plan.Day, plan.DayEnd); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// querier is the subset of *sql.DB and *sql.Tx the conflict checks need.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// checkRoomConflict returns ErrScheduleOverlap if another scheduled session
// in sess's room overlaps the half-open interval [StartsAt, EndsAt).
// Unassigned, cancelled, and degenerate sessions never conflict, and
// back-to-back sessions are fine.
func checkRoomConflict(ctx context.Context, q querier, sess *event.Session) error {
	if sess.RoomID == "" || !sess.IsScheduled() || sess.InvalidInterval() {
		return nil
	}

	query := `
		SELECT title, starts_at, ends_at
		FROM sessions
		WHERE COALESCE(room_id, '') = ?
		  AND status = ?
		  AND id != ?
		  AND starts_at < ?
		  AND ends_at > ?
		LIMIT 1
	`

	var (
		title    string
		startsAt string
		endsAt   string
	)

	err := q.QueryRowContext(ctx, query,
		sess.RoomID,
		event.StatusScheduled,
		sess.ID,
		formatInstant(sess.EndsAt),
		formatInstant(sess.StartsAt),
	).Scan(&title, &startsAt, &endsAt)

	if err == sql.ErrNoRows {
		return nil // No conflict
	}
	if err != nil {
		return fmt.Errorf("checking overlap: %w", err)
	}

	return fmt.Errorf("%w: conflicts with %q (%s - %s)", ErrScheduleOverlap, title, startsAt, endsAt)
}

// checkBatchConflict checks for conflicts between sessions in the same batch.
func checkBatchConflict(sessions []*event.Session) error {
	for i := 0; i < len(sessions); i++ {
		for j := i + 1; j < len(sessions); j++ {
			if sessions[i].ConflictsWith(sessions[j]) {
				return fmt.Errorf("%w: %q and %q", ErrScheduleOverlap, sessions[i].Title, sessions[j].Title)
			}
		}
	}
	return nil
}

// checkDayState re-reads one room's scheduled sessions for one day and
// rejects the state if any two overlap. Interval endpoints compare as text;
// RFC3339 UTC strings order the same way the instants do.
func checkDayState(ctx context.Context, tx *sql.Tx, roomID string, day, dayEnd time.Time) error {
	query := `
		SELECT title, starts_at, ends_at
		FROM sessions
		WHERE COALESCE(room_id, '') = ?
		  AND status = ?
		  AND starts_at >= ? AND starts_at < ?
		ORDER BY starts_at, id
	`

	rows, err := tx.QueryContext(ctx, query, roomID, event.StatusScheduled, formatInstant(day), formatInstant(dayEnd))
	if err != nil {
		return fmt.Errorf("querying day state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type interval struct {
		title string
		start string
		end   string
	}

	var state []interval
	for rows.Next() {
		var iv interval
		if err := rows.Scan(&iv.title, &iv.start, &iv.end); err != nil {
			return fmt.Errorf("scanning day state: %w", err)
		}
		state = append(state, iv)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating day state: %w", err)
	}

	for i := 0; i < len(state); i++ {
		for j := i + 1; j < len(state); j++ {
			a, b := state[i], state[j]
			if a.start < b.end && b.start < a.end {
				return fmt.Errorf("%w: %q (%s - %s) and %q (%s - %s)",
					ErrScheduleOverlap, a.title, a.start, a.end, b.title, b.start, b.end)
			}
		}
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*event.Session, error) {
	var (
		sess        event.Session
		speakers    sql.NullString
		description sql.NullString
		roomID      sql.NullString
		startsAt    string
		endsAt      string
		createdAt   string
	)

	err := row.Scan(
		&sess.ID,
		&sess.Title,
		&speakers,
		&description,
		&roomID,
		&startsAt,
		&endsAt,
		&sess.Status,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	sess.Speakers, err = decodeSpeakers(speakers)
	if err != nil {
		return nil, err
	}
	sess.Description = description.String
	sess.RoomID = roomID.String

	if sess.StartsAt, err = parseInstant(startsAt); err != nil {
		return nil, fmt.Errorf("parsing starts at: %w", err)
	}
	if sess.EndsAt, err = parseInstant(endsAt); err != nil {
		return nil, fmt.Errorf("parsing ends at: %w", err)
	}
	if sess.CreatedAt, err = parseInstant(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &sess, nil
}

func scanRoom(row rowScanner) (*event.Room, error) {
	var (
		r         event.Room
		createdAt string
	)

	if err := row.Scan(&r.ID, &r.Name, &r.SortOrder, &createdAt); err != nil {
		return nil, err
	}

	t, err := parseInstant(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	r.CreatedAt = t

	return &r, nil
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseInstant(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func encodeSpeakers(speakers []string) sql.NullString {
	if len(speakers) == 0 {
		return sql.NullString{}
	}
	b, _ := json.Marshal(speakers)
	return sql.NullString{String: string(b), Valid: true}
}

func decodeSpeakers(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}

	var speakers []string
	if err := json.Unmarshal([]byte(raw.String), &speakers); err != nil {
		return nil, fmt.Errorf("decoding speakers: %w", err)
	}
	return speakers, nil
}
