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

// Revision is a student's request to correct a recorded attendance status.
// The partial unique index on (attendance_id) WHERE status = 'pending'
// allows at most one open request per record.
type Revision struct {
	ID              uuid.UUID  `db:"id"`
	AttendanceID    uuid.UUID  `db:"attendance_id"`
	ScheduleID      uuid.UUID  `db:"schedule_id"`
	StudentID       uuid.UUID  `db:"student_id"`
	OldStatus       string     `db:"old_status"`
	RequestedStatus string     `db:"requested_status"`
	Reason          string     `db:"reason"`
	EvidenceKey     *string    `db:"evidence_key"`
	Status          string     `db:"status"`
	DecisionNote    *string    `db:"decision_note"`
	DecidedBy       *uuid.UUID `db:"decided_by"`
	DecidedAt       *time.Time `db:"decided_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

const revisionColumns = `id, attendance_id, schedule_id, student_id, old_status, requested_status,
	reason, evidence_key, status, decision_note, decided_by, decided_at, created_at, updated_at`

// CreateRevision inserts a pending revision request. A second open request
// on the same attendance record is a conflict.
func (r *Repository) CreateRevision(ctx context.Context, rev *Revision) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attendance_revisions (
			id, attendance_id, schedule_id, student_id, old_status, requested_status,
			reason, evidence_key, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rev.ID, rev.AttendanceID, rev.ScheduleID, rev.StudentID, rev.OldStatus, rev.RequestedStatus,
		rev.Reason, rev.EvidenceKey, rev.Status, rev.CreatedAt, rev.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("a revision request is already pending for this attendance")
		}
		return fmt.Errorf("failed to create revision: %w", err)
	}
	return nil
}

func scanRevision(row pgx.Row) (*Revision, error) {
	var rev Revision
	err := row.Scan(
		&rev.ID, &rev.AttendanceID, &rev.ScheduleID, &rev.StudentID, &rev.OldStatus, &rev.RequestedStatus,
		&rev.Reason, &rev.EvidenceKey, &rev.Status, &rev.DecisionNote, &rev.DecidedBy, &rev.DecidedAt,
		&rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("revision request not found")
		}
		return nil, fmt.Errorf("failed to scan revision: %w", err)
	}
	return &rev, nil
}

// GetRevision retrieves a revision request by ID.
func (r *Repository) GetRevision(ctx context.Context, id uuid.UUID) (*Revision, error) {
	query := `SELECT ` + revisionColumns + ` FROM attendance_revisions WHERE id = $1`
	return scanRevision(r.pool.QueryRow(ctx, query, id))
}

// ListPendingRevisions returns all open revision requests, oldest first.
func (r *Repository) ListPendingRevisions(ctx context.Context) ([]Revision, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+revisionColumns+` FROM attendance_revisions WHERE status = 'pending' ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending revisions: %w", err)
	}
	return collectRevisions(rows)
}

// ListRevisionsByStudent returns a student's revision requests, newest first.
func (r *Repository) ListRevisionsByStudent(ctx context.Context, studentID uuid.UUID) ([]Revision, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+revisionColumns+` FROM attendance_revisions WHERE student_id = $1 ORDER BY created_at DESC`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return collectRevisions(rows)
}

func collectRevisions(rows pgx.Rows) ([]Revision, error) {
	defer rows.Close()

	var revisions []Revision
	for rows.Next() {
		var rev Revision
		if err := rows.Scan(
			&rev.ID, &rev.AttendanceID, &rev.ScheduleID, &rev.StudentID, &rev.OldStatus, &rev.RequestedStatus,
			&rev.Reason, &rev.EvidenceKey, &rev.Status, &rev.DecisionNote, &rev.DecidedBy, &rev.DecidedAt,
			&rev.CreatedAt, &rev.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate revisions: %w", err)
	}

	return revisions, nil
}

// DecideRevision records the verdict on a pending request inside tx. Returns
// false when the request was no longer pending.
func (r *Repository) DecideRevision(ctx context.Context, tx pgx.Tx, id, deciderID uuid.UUID, status string, note *string) (bool, error) {
	now := time.Now()
	result, err := tx.Exec(ctx, `
		UPDATE attendance_revisions SET
			status = $2,
			decision_note = $3,
			decided_by = $4,
			decided_at = $5,
			updated_at = $5
		WHERE id = $1 AND status = 'pending'`,
		id, status, note, deciderID, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to decide revision: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
