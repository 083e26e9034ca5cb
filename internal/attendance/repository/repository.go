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

// Attendance is one student's presence record for a schedule. At most one
// row exists per (schedule, student); the database enforces it.
type Attendance struct {
	ID         uuid.UUID  `db:"id"`
	ScheduleID uuid.UUID  `db:"schedule_id"`
	SeminarID  uuid.UUID  `db:"seminar_id"`
	StudentID  uuid.UUID  `db:"student_id"`
	Status     string     `db:"status"`
	Method     string     `db:"method"`
	ScanLat    *float64   `db:"scan_lat"`
	ScanLon    *float64   `db:"scan_lon"`
	DistanceM  *float64   `db:"distance_m"`
	Note       *string    `db:"note"`
	RecordedBy *uuid.UUID `db:"recorded_by"`
	ScannedAt  time.Time  `db:"scanned_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

const attendanceColumns = `id, schedule_id, seminar_id, student_id, status, method,
	scan_lat, scan_lon, distance_m, note, recorded_by, scanned_at, created_at, updated_at`

// Repository provides database operations for attendance records
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new attendance repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Pool exposes the underlying pool for service-level transactions.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts an attendance record. The unique index on
// (schedule_id, student_id) makes a second scan a conflict, which the
// service surfaces as a duplicate attendance error.
func (r *Repository) Create(ctx context.Context, a *Attendance) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attendances (
			id, schedule_id, seminar_id, student_id, status, method,
			scan_lat, scan_lon, distance_m, note, recorded_by, scanned_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID, a.ScheduleID, a.SeminarID, a.StudentID, a.Status, a.Method,
		a.ScanLat, a.ScanLon, a.DistanceM, a.Note, a.RecordedBy, a.ScannedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("attendance already recorded for this schedule")
		}
		return fmt.Errorf("failed to create attendance: %w", err)
	}
	return nil
}

func scanAttendance(row pgx.Row) (*Attendance, error) {
	var a Attendance
	err := row.Scan(
		&a.ID, &a.ScheduleID, &a.SeminarID, &a.StudentID, &a.Status, &a.Method,
		&a.ScanLat, &a.ScanLon, &a.DistanceM, &a.Note, &a.RecordedBy, &a.ScannedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("attendance not found")
		}
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	return &a, nil
}

// GetByID retrieves an attendance record by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`
	return scanAttendance(r.pool.QueryRow(ctx, query, id))
}

// GetByScheduleAndStudent retrieves a student's record for a schedule.
func (r *Repository) GetByScheduleAndStudent(ctx context.Context, scheduleID, studentID uuid.UUID) (*Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE schedule_id = $1 AND student_id = $2`
	return scanAttendance(r.pool.QueryRow(ctx, query, scheduleID, studentID))
}

// ListBySchedule returns all attendance records for a schedule.
func (r *Repository) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]Attendance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendances WHERE schedule_id = $1 ORDER BY scanned_at ASC`,
		scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return collectAttendances(rows)
}

// ListByStudent returns a student's attendance records, newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]Attendance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendances WHERE student_id = $1 ORDER BY scanned_at DESC`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return collectAttendances(rows)
}

func collectAttendances(rows pgx.Rows) ([]Attendance, error) {
	defer rows.Close()

	var attendances []Attendance
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(
			&a.ID, &a.ScheduleID, &a.SeminarID, &a.StudentID, &a.Status, &a.Method,
			&a.ScanLat, &a.ScanLon, &a.DistanceM, &a.Note, &a.RecordedBy, &a.ScannedAt, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, nil
}

// UpdateStatus changes the recorded status inside tx. Used when a revision
// request is approved.
func (r *Repository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error {
	result, err := tx.Exec(ctx,
		`UPDATE attendances SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("attendance not found")
	}
	return nil
}
