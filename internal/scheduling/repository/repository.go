package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seminar_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schedule is the placement of a seminar in a room and time window, carrying
// the QR token and geofence anchor used by attendance.
type Schedule struct {
	ID        uuid.UUID `db:"id"`
	SeminarID uuid.UUID `db:"seminar_id"`
	Room      string    `db:"room"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	QRToken   uuid.UUID `db:"qr_token"`
	QRFileKey *string   `db:"qr_file_key"`
	CreatedBy uuid.UUID `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const scheduleColumns = `id, seminar_id, room, start_time, end_time, latitude, longitude,
	qr_token, qr_file_key, created_by, created_at, updated_at`

// Repository provides database operations for schedules
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new scheduling repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Pool exposes the underlying pool for service-level transactions.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// isRoomConflict matches both the exclusion constraint on (room, window) and
// the unique index on seminar_id.
func roomConflictError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01":
			return apperr.Conflict("room is already booked for an overlapping window")
		case "23505":
			return apperr.Conflict("seminar already has a schedule")
		}
	}
	return nil
}

// Create inserts a schedule inside tx. The exclusion constraint on
// (room, window) is the authoritative overlap check; a violation surfaces as
// a conflict error.
func (r *Repository) Create(ctx context.Context, tx pgx.Tx, s *Schedule) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO schedules (
			id, seminar_id, room, start_time, end_time, latitude, longitude,
			qr_token, qr_file_key, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.SeminarID, s.Room, s.StartTime, s.EndTime, s.Latitude, s.Longitude,
		s.QRToken, s.QRFileKey, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if conflictErr := roomConflictError(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var s Schedule
	err := row.Scan(
		&s.ID, &s.SeminarID, &s.Room, &s.StartTime, &s.EndTime, &s.Latitude, &s.Longitude,
		&s.QRToken, &s.QRFileKey, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("schedule not found")
		}
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}
	return &s, nil
}

// GetByID retrieves a schedule by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	return scanSchedule(r.pool.QueryRow(ctx, query, id))
}

// GetBySeminar retrieves the schedule for a seminar.
func (r *Repository) GetBySeminar(ctx context.Context, seminarID uuid.UUID) (*Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE seminar_id = $1`
	return scanSchedule(r.pool.QueryRow(ctx, query, seminarID))
}

// GetByQRToken resolves a scanned token to its schedule. Unknown tokens are
// reported as not found; the attendance service maps that to an invalid
// token error.
func (r *Repository) GetByQRToken(ctx context.Context, token uuid.UUID) (*Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE qr_token = $1`
	return scanSchedule(r.pool.QueryRow(ctx, query, token))
}

// HasRoomOverlap is the fast-path overlap check run before insert. The
// exclusion constraint remains the source of truth under concurrency.
func (r *Repository) HasRoomOverlap(ctx context.Context, room string, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM schedules
		WHERE room = $1 AND id <> $4 AND start_time < $3 AND end_time > $2`,
		room, start, end, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check room overlap: %w", err)
	}
	return count > 0, nil
}

// Update moves a schedule to a new room or window inside tx.
func (r *Repository) Update(ctx context.Context, tx pgx.Tx, s *Schedule) error {
	result, err := tx.Exec(ctx, `
		UPDATE schedules SET
			room = $2,
			start_time = $3,
			end_time = $4,
			latitude = $5,
			longitude = $6,
			updated_at = $7
		WHERE id = $1`,
		s.ID, s.Room, s.StartTime, s.EndTime, s.Latitude, s.Longitude, time.Now(),
	)
	if err != nil {
		if conflictErr := roomConflictError(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("schedule not found")
	}
	return nil
}

// SetQRFileKey records the storage key of the rendered QR code image.
func (r *Repository) SetQRFileKey(ctx context.Context, id uuid.UUID, fileKey string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE schedules SET qr_file_key = $2, updated_at = $3 WHERE id = $1`,
		id, fileKey, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set QR file key: %w", err)
	}
	return nil
}

// Delete removes a schedule, releasing its room window. Used when a
// scheduled seminar is cancelled.
func (r *Repository) Delete(ctx context.Context, seminarID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM schedules WHERE seminar_id = $1`, seminarID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

// ListUpcoming returns schedules starting within the given window, soonest
// first. Used by the reminder job.
func (r *Repository) ListUpcoming(ctx context.Context, from, to time.Time) ([]Schedule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE start_time >= $1 AND start_time < $2 ORDER BY start_time ASC`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming schedules: %w", err)
	}
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(
			&s.ID, &s.SeminarID, &s.Room, &s.StartTime, &s.EndTime, &s.Latitude, &s.Longitude,
			&s.QRToken, &s.QRFileKey, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}

	return schedules, nil
}

// MarkSeminarScheduled flips the seminar row from approved to scheduled
// inside tx. Returns false when another writer already moved the row, which
// makes the whole scheduling attempt an idempotent no-op.
func (r *Repository) MarkSeminarScheduled(ctx context.Context, tx pgx.Tx, seminarID uuid.UUID) (bool, error) {
	result, err := tx.Exec(ctx,
		`UPDATE seminars SET status = 'scheduled', updated_at = $2 WHERE id = $1 AND status = 'approved'`,
		seminarID, time.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark seminar scheduled: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
