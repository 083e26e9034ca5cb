package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seminar_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LecturerAttendance is a lecturer's self-reported presence at a schedule,
// optionally verified by an administrator afterwards.
type LecturerAttendance struct {
	ID          uuid.UUID  `db:"id"`
	ScheduleID  uuid.UUID  `db:"schedule_id"`
	SeminarID   uuid.UUID  `db:"seminar_id"`
	LecturerID  uuid.UUID  `db:"lecturer_id"`
	Role        string     `db:"role"`
	Status      string     `db:"status"`
	CheckedInAt time.Time  `db:"checked_in_at"`
	VerifiedBy  *uuid.UUID `db:"verified_by"`
	VerifiedAt  *time.Time `db:"verified_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

const lecturerAttendanceColumns = `id, schedule_id, seminar_id, lecturer_id, role, status,
	checked_in_at, verified_by, verified_at, created_at`

// CreateLecturerAttendance records a lecturer check-in. A second check-in on
// the same schedule is a conflict.
func (r *Repository) CreateLecturerAttendance(ctx context.Context, la *LecturerAttendance) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lecturer_attendances (
			id, schedule_id, seminar_id, lecturer_id, role, status, checked_in_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		la.ID, la.ScheduleID, la.SeminarID, la.LecturerID, la.Role, la.Status, la.CheckedInAt, la.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("lecturer already checked in for this schedule")
		}
		return fmt.Errorf("failed to create lecturer attendance: %w", err)
	}
	return nil
}

// GetLecturerAttendance retrieves a check-in record by ID.
func (r *Repository) GetLecturerAttendance(ctx context.Context, id uuid.UUID) (*LecturerAttendance, error) {
	var la LecturerAttendance
	err := r.pool.QueryRow(ctx,
		`SELECT `+lecturerAttendanceColumns+` FROM lecturer_attendances WHERE id = $1`, id,
	).Scan(
		&la.ID, &la.ScheduleID, &la.SeminarID, &la.LecturerID, &la.Role, &la.Status,
		&la.CheckedInAt, &la.VerifiedBy, &la.VerifiedAt, &la.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("lecturer attendance not found")
		}
		return nil, fmt.Errorf("failed to get lecturer attendance: %w", err)
	}
	return &la, nil
}

// ListLecturerAttendances returns check-ins for a schedule.
func (r *Repository) ListLecturerAttendances(ctx context.Context, scheduleID uuid.UUID) ([]LecturerAttendance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+lecturerAttendanceColumns+` FROM lecturer_attendances WHERE schedule_id = $1 ORDER BY checked_in_at ASC`,
		scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lecturer attendances: %w", err)
	}
	defer rows.Close()

	var items []LecturerAttendance
	for rows.Next() {
		var la LecturerAttendance
		if err := rows.Scan(
			&la.ID, &la.ScheduleID, &la.SeminarID, &la.LecturerID, &la.Role, &la.Status,
			&la.CheckedInAt, &la.VerifiedBy, &la.VerifiedAt, &la.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lecturer attendance: %w", err)
		}
		items = append(items, la)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lecturer attendances: %w", err)
	}

	return items, nil
}

// VerifyLecturerAttendance marks a check-in as verified by an administrator.
// Returns false when the record was already verified.
func (r *Repository) VerifyLecturerAttendance(ctx context.Context, id, adminID uuid.UUID) (bool, error) {
	now := time.Now()
	result, err := r.pool.Exec(ctx, `
		UPDATE lecturer_attendances SET
			status = 'verified',
			verified_by = $2,
			verified_at = $3
		WHERE id = $1 AND status = 'checked_in'`,
		id, adminID, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to verify lecturer attendance: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
