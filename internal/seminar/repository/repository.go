package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seminar_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seminar represents the seminar database model
type Seminar struct {
	ID              uuid.UUID  `db:"id"`
	StudentID       uuid.UUID  `db:"student_id"`
	Title           string     `db:"title"`
	Type            string     `db:"type"`
	Abstract        *string    `db:"abstract"`
	FileKey         *string    `db:"file_key"`
	Status          string     `db:"status"`
	Score           *float64   `db:"score"`
	Advisor1ID      *uuid.UUID `db:"advisor1_id"`
	Advisor2ID      *uuid.UUID `db:"advisor2_id"`
	ExaminerID      *uuid.UUID `db:"examiner_id"`
	VerifiedAt      *time.Time `db:"verified_at"`
	CancelledAt     *time.Time `db:"cancelled_at"`
	CancelReason    *string    `db:"cancel_reason"`
	FinalNote       *string    `db:"final_note"`
	FinalAssessedAt *time.Time `db:"final_assessed_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// AssignedLecturers returns the non-nil lecturer IDs on the seminar.
func (s *Seminar) AssignedLecturers() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 3)
	for _, id := range []*uuid.UUID{s.Advisor1ID, s.Advisor2ID, s.ExaminerID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

// HistoryEntry is one row of the append-only verification history trail.
type HistoryEntry struct {
	ID        uuid.UUID `db:"id"`
	SeminarID uuid.UUID `db:"seminar_id"`
	Action    string    `db:"action"`
	ActorID   uuid.UUID `db:"actor_id"`
	Note      *string   `db:"note"`
	CreatedAt time.Time `db:"created_at"`
}

const seminarColumns = `id, student_id, title, type, abstract, file_key, status, score,
	advisor1_id, advisor2_id, examiner_id, verified_at, cancelled_at, cancel_reason,
	final_note, final_assessed_at, created_at, updated_at`

const seminarNotFoundMsg = "seminar not found"

// Repository provides database operations for seminars
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new seminar repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Pool exposes the underlying pool for service-level transactions.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

func scanSeminar(row pgx.Row) (*Seminar, error) {
	var s Seminar
	err := row.Scan(
		&s.ID, &s.StudentID, &s.Title, &s.Type, &s.Abstract, &s.FileKey, &s.Status, &s.Score,
		&s.Advisor1ID, &s.Advisor2ID, &s.ExaminerID, &s.VerifiedAt, &s.CancelledAt, &s.CancelReason,
		&s.FinalNote, &s.FinalAssessedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(seminarNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan seminar: %w", err)
	}
	return &s, nil
}

// Create inserts a new seminar
func (r *Repository) Create(ctx context.Context, s *Seminar) error {
	query := `
		INSERT INTO seminars (
			id, student_id, title, type, abstract, file_key, status, score,
			advisor1_id, advisor2_id, examiner_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)`

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.StudentID, s.Title, s.Type, s.Abstract, s.FileKey, s.Status, s.Score,
		s.Advisor1ID, s.Advisor2ID, s.ExaminerID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create seminar: %w", err)
	}

	return nil
}

// GetByID retrieves a seminar by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Seminar, error) {
	query := `SELECT ` + seminarColumns + ` FROM seminars WHERE id = $1`
	return scanSeminar(r.pool.QueryRow(ctx, query, id))
}

// GetForUpdate retrieves a seminar inside tx with a row lock, serializing
// concurrent status transitions on the same seminar.
func (r *Repository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Seminar, error) {
	query := `SELECT ` + seminarColumns + ` FROM seminars WHERE id = $1 FOR UPDATE`
	return scanSeminar(tx.QueryRow(ctx, query, id))
}

// UpdateStatus sets the status plus the bookkeeping columns that travel with
// it. Runs inside the caller's transaction so the status flip and its history
// entry commit together.
func (r *Repository) UpdateStatus(ctx context.Context, tx pgx.Tx, s *Seminar) error {
	query := `
		UPDATE seminars SET
			status = $2,
			verified_at = $3,
			cancelled_at = $4,
			cancel_reason = $5,
			updated_at = $6
		WHERE id = $1`

	result, err := tx.Exec(ctx, query,
		s.ID, s.Status, s.VerifiedAt, s.CancelledAt, s.CancelReason, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update seminar status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(seminarNotFoundMsg)
	}

	return nil
}

// Resubmit restores a revising seminar to pending verification and clears
// the verification bookkeeping from the previous round.
func (r *Repository) Resubmit(ctx context.Context, tx pgx.Tx, id uuid.UUID, title string, abstract, fileKey *string, status string) error {
	query := `
		UPDATE seminars SET
			title = $2,
			abstract = $3,
			file_key = COALESCE($4, file_key),
			status = $5,
			verified_at = NULL,
			cancelled_at = NULL,
			cancel_reason = NULL,
			updated_at = $6
		WHERE id = $1`

	result, err := tx.Exec(ctx, query, id, title, abstract, fileKey, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to resubmit seminar: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(seminarNotFoundMsg)
	}

	return nil
}

// SetFinalAssessment records the closing score and note on a seminar.
func (r *Repository) SetFinalAssessment(ctx context.Context, tx pgx.Tx, id uuid.UUID, score *float64, note *string) error {
	query := `
		UPDATE seminars SET
			score = $2,
			final_note = $3,
			final_assessed_at = $4,
			updated_at = $4
		WHERE id = $1`

	result, err := tx.Exec(ctx, query, id, score, note, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set final assessment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(seminarNotFoundMsg)
	}

	return nil
}

// AppendHistory writes one verification history row. History is append-only;
// there is no update or delete path.
func (r *Repository) AppendHistory(ctx context.Context, tx pgx.Tx, entry *HistoryEntry) error {
	query := `
		INSERT INTO seminar_history (id, seminar_id, action, actor_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		entry.ID, entry.SeminarID, entry.Action, entry.ActorID, entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append seminar history: %w", err)
	}

	return nil
}

// ListHistory returns the verification trail for a seminar, oldest first.
func (r *Repository) ListHistory(ctx context.Context, seminarID uuid.UUID) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, seminar_id, action, actor_id, note, created_at
		FROM seminar_history
		WHERE seminar_id = $1
		ORDER BY created_at ASC`, seminarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seminar history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.SeminarID, &e.Action, &e.ActorID, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan seminar history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate seminar history: %w", err)
	}

	return entries, nil
}

// ListParams contains parameters for listing seminars
type ListParams struct {
	StudentID *uuid.UUID
	LecturerID *uuid.UUID
	Status    *string
	Type      *string
	Page      int
	PageSize  int
}

// ListResult contains the result of listing seminars
type ListResult struct {
	Items      []Seminar
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// List retrieves seminars with optional filtering
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `FROM seminars WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if params.StudentID != nil {
		baseQuery += fmt.Sprintf(" AND student_id = $%d", argIndex)
		args = append(args, *params.StudentID)
		argIndex++
	}
	if params.LecturerID != nil {
		baseQuery += fmt.Sprintf(" AND (advisor1_id = $%d OR advisor2_id = $%d OR examiner_id = $%d)", argIndex, argIndex, argIndex)
		args = append(args, *params.LecturerID)
		argIndex++
	}
	if params.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *params.Status)
		argIndex++
	}
	if params.Type != nil {
		baseQuery += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, *params.Type)
		argIndex++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count seminars: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		seminarColumns, baseQuery, argIndex, argIndex+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list seminars: %w", err)
	}
	defer rows.Close()

	var items []Seminar
	for rows.Next() {
		var s Seminar
		if err := rows.Scan(
			&s.ID, &s.StudentID, &s.Title, &s.Type, &s.Abstract, &s.FileKey, &s.Status, &s.Score,
			&s.Advisor1ID, &s.Advisor2ID, &s.ExaminerID, &s.VerifiedAt, &s.CancelledAt, &s.CancelReason,
			&s.FinalNote, &s.FinalAssessedAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan seminar: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate seminars: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// HasActiveSeminar reports whether the student already has a seminar of the
// given type that is not cancelled or finished.
func (r *Repository) HasActiveSeminar(ctx context.Context, studentID uuid.UUID, seminarType string) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM seminars
		WHERE student_id = $1 AND type = $2 AND status NOT IN ('cancelled', 'finished')`,
		studentID, seminarType,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check active seminars: %w", err)
	}
	return count > 0, nil
}
