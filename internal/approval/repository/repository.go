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

// Approval is one lecturer role's decision slot on a seminar. Exactly one
// row exists per (seminar, role); the database enforces it.
type Approval struct {
	ID             uuid.UUID   `db:"id"`
	SeminarID      uuid.UUID   `db:"seminar_id"`
	LecturerID     uuid.UUID   `db:"lecturer_id"`
	Role           string      `db:"role"`
	Status         string      `db:"status"`
	Note           *string     `db:"note"`
	AvailableDates []time.Time `db:"available_dates"`
	DecidedAt      *time.Time  `db:"decided_at"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

// HistoryEntry is one append-only record of an approval decision or reset.
type HistoryEntry struct {
	ID         uuid.UUID `db:"id"`
	ApprovalID uuid.UUID `db:"approval_id"`
	SeminarID  uuid.UUID `db:"seminar_id"`
	LecturerID uuid.UUID `db:"lecturer_id"`
	Role       string    `db:"role"`
	Action     string    `db:"action"`
	Note       *string   `db:"note"`
	CreatedAt  time.Time `db:"created_at"`
}

const approvalColumns = `id, seminar_id, lecturer_id, role, status, note, available_dates,
	decided_at, created_at, updated_at`

// Repository provides database operations for approvals
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new approval repository
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

// CreateBatch inserts one approval slot per assigned role. The unique index
// on (seminar_id, role) rejects duplicate role assignments.
func (r *Repository) CreateBatch(ctx context.Context, approvals []Approval) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for i := range approvals {
		a := &approvals[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO approvals (id, seminar_id, lecturer_id, role, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.ID, a.SeminarID, a.LecturerID, a.Role, a.Status, a.CreatedAt, a.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict(fmt.Sprintf("role %s is already assigned on this seminar", a.Role))
			}
			return fmt.Errorf("failed to create approval: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanApproval(row pgx.Row) (*Approval, error) {
	var a Approval
	err := row.Scan(
		&a.ID, &a.SeminarID, &a.LecturerID, &a.Role, &a.Status, &a.Note, &a.AvailableDates,
		&a.DecidedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("approval not found")
		}
		return nil, fmt.Errorf("failed to scan approval: %w", err)
	}
	return &a, nil
}

// GetByID retrieves an approval by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE id = $1`
	return scanApproval(r.pool.QueryRow(ctx, query, id))
}

// GetBySeminarAndLecturer retrieves the approval slot a lecturer holds on a
// seminar. A lecturer holds at most one role per seminar.
func (r *Repository) GetBySeminarAndLecturer(ctx context.Context, seminarID, lecturerID uuid.UUID) (*Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE seminar_id = $1 AND lecturer_id = $2`
	return scanApproval(r.pool.QueryRow(ctx, query, seminarID, lecturerID))
}

// ListBySeminar returns all approval slots for a seminar in role order.
func (r *Repository) ListBySeminar(ctx context.Context, seminarID uuid.UUID) ([]Approval, error) {
	return r.listBySeminar(ctx, r.pool, seminarID)
}

// ListBySeminarForUpdate returns all approval slots with row locks, so the
// consensus check and the resulting transition serialize across lecturers.
func (r *Repository) ListBySeminarForUpdate(ctx context.Context, tx pgx.Tx, seminarID uuid.UUID) ([]Approval, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+approvalColumns+` FROM approvals WHERE seminar_id = $1 ORDER BY role ASC FOR UPDATE`,
		seminarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals for update: %w", err)
	}
	return collectApprovals(rows)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repository) listBySeminar(ctx context.Context, q querier, seminarID uuid.UUID) ([]Approval, error) {
	rows, err := q.Query(ctx,
		`SELECT `+approvalColumns+` FROM approvals WHERE seminar_id = $1 ORDER BY role ASC`,
		seminarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	return collectApprovals(rows)
}

func collectApprovals(rows pgx.Rows) ([]Approval, error) {
	defer rows.Close()

	var approvals []Approval
	for rows.Next() {
		var a Approval
		if err := rows.Scan(
			&a.ID, &a.SeminarID, &a.LecturerID, &a.Role, &a.Status, &a.Note, &a.AvailableDates,
			&a.DecidedAt, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		approvals = append(approvals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate approvals: %w", err)
	}

	return approvals, nil
}

// ListPendingByLecturer returns a lecturer's approval slots that still await
// a decision, newest seminar first.
func (r *Repository) ListPendingByLecturer(ctx context.Context, lecturerID uuid.UUID) ([]Approval, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+approvalColumns+` FROM approvals WHERE lecturer_id = $1 AND status = 'pending' ORDER BY created_at DESC`,
		lecturerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	return collectApprovals(rows)
}

// Decide records a decision on a pending slot. Returns false when the slot
// was no longer pending, which callers surface as an already-decided error.
func (r *Repository) Decide(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, note *string, availableDates []time.Time) (bool, error) {
	now := time.Now()
	result, err := tx.Exec(ctx, `
		UPDATE approvals SET
			status = $2,
			note = $3,
			available_dates = $4,
			decided_at = $5,
			updated_at = $5
		WHERE id = $1 AND status = 'pending'`,
		id, status, note, availableDates, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record approval decision: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ResetAll returns every slot on a seminar to pending, clearing the previous
// decisions. Used when a revised submission re-enters verification.
func (r *Repository) ResetAll(ctx context.Context, tx pgx.Tx, seminarID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE approvals SET
			status = 'pending',
			note = NULL,
			available_dates = NULL,
			decided_at = NULL,
			updated_at = $2
		WHERE seminar_id = $1`,
		seminarID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to reset approvals: %w", err)
	}
	return nil
}

// AppendHistory writes one approval history row inside tx.
func (r *Repository) AppendHistory(ctx context.Context, tx pgx.Tx, entry *HistoryEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO approval_history (id, approval_id, seminar_id, lecturer_id, role, action, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.ApprovalID, entry.SeminarID, entry.LecturerID, entry.Role, entry.Action, entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append approval history: %w", err)
	}
	return nil
}

// ListHistory returns the approval trail for a seminar, oldest first.
func (r *Repository) ListHistory(ctx context.Context, seminarID uuid.UUID) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, approval_id, seminar_id, lecturer_id, role, action, note, created_at
		FROM approval_history
		WHERE seminar_id = $1
		ORDER BY created_at ASC`, seminarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.ApprovalID, &e.SeminarID, &e.LecturerID, &e.Role, &e.Action, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate approval history: %w", err)
	}

	return entries, nil
}
