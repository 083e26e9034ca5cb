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

// RevisionItem is one post-seminar correction a lecturer asked the student
// to make before the seminar can be finished.
type RevisionItem struct {
	ID              uuid.UUID  `db:"id"`
	SeminarID       uuid.UUID  `db:"seminar_id"`
	RequestedBy     uuid.UUID  `db:"requested_by"`
	Title           string     `db:"title"`
	Description     *string    `db:"description"`
	Status          string     `db:"status"`
	FileKey         *string    `db:"file_key"`
	StudentNote     *string    `db:"student_note"`
	RejectionReason *string    `db:"rejection_reason"`
	RevisionCount   int        `db:"revision_count"`
	ValidatedBy     *uuid.UUID `db:"validated_by"`
	ValidatedAt     *time.Time `db:"validated_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

const revisionItemColumns = `id, seminar_id, requested_by, title, description, status,
	file_key, student_note, rejection_reason, revision_count, validated_by, validated_at,
	created_at, updated_at`

func scanRevisionItem(row pgx.Row) (*RevisionItem, error) {
	var item RevisionItem
	err := row.Scan(
		&item.ID, &item.SeminarID, &item.RequestedBy, &item.Title, &item.Description, &item.Status,
		&item.FileKey, &item.StudentNote, &item.RejectionReason, &item.RevisionCount,
		&item.ValidatedBy, &item.ValidatedAt, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("revision item not found")
		}
		return nil, fmt.Errorf("failed to scan revision item: %w", err)
	}
	return &item, nil
}

// CreateRevisionItem inserts a requested revision item.
func (r *Repository) CreateRevisionItem(ctx context.Context, item *RevisionItem) error {
	query := `
		INSERT INTO revision_items (
			id, seminar_id, requested_by, title, description, status, revision_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.SeminarID, item.RequestedBy, item.Title, item.Description,
		item.Status, item.RevisionCount, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create revision item: %w", err)
	}

	return nil
}

// GetRevisionItem retrieves a revision item by ID.
func (r *Repository) GetRevisionItem(ctx context.Context, id uuid.UUID) (*RevisionItem, error) {
	query := `SELECT ` + revisionItemColumns + ` FROM revision_items WHERE id = $1`
	return scanRevisionItem(r.pool.QueryRow(ctx, query, id))
}

// ListRevisionItems returns all revision items for a seminar, oldest first.
func (r *Repository) ListRevisionItems(ctx context.Context, seminarID uuid.UUID) ([]RevisionItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+revisionItemColumns+` FROM revision_items WHERE seminar_id = $1 ORDER BY created_at ASC`,
		seminarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revision items: %w", err)
	}
	defer rows.Close()

	var items []RevisionItem
	for rows.Next() {
		var item RevisionItem
		if err := rows.Scan(
			&item.ID, &item.SeminarID, &item.RequestedBy, &item.Title, &item.Description, &item.Status,
			&item.FileKey, &item.StudentNote, &item.RejectionReason, &item.RevisionCount,
			&item.ValidatedBy, &item.ValidatedAt, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan revision item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate revision items: %w", err)
	}

	return items, nil
}

// SubmitRevisionItem records the student's submission on an item and moves it
// to submitted. Each resubmission after a rejection bumps revision_count.
func (r *Repository) SubmitRevisionItem(ctx context.Context, id uuid.UUID, fileKey, studentNote *string, status string, bumpCount bool) error {
	query := `
		UPDATE revision_items SET
			file_key = COALESCE($2, file_key),
			student_note = $3,
			status = $4,
			rejection_reason = NULL,
			revision_count = revision_count + CASE WHEN $5 THEN 1 ELSE 0 END,
			updated_at = $6
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, fileKey, studentNote, status, bumpCount, time.Now())
	if err != nil {
		return fmt.Errorf("failed to submit revision item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("revision item not found")
	}

	return nil
}

// ValidateRevisionItem records a lecturer's accept or reject decision.
func (r *Repository) ValidateRevisionItem(ctx context.Context, id, validatorID uuid.UUID, status string, rejectionReason *string) error {
	now := time.Now()
	query := `
		UPDATE revision_items SET
			status = $2,
			rejection_reason = $3,
			validated_by = $4,
			validated_at = $5,
			updated_at = $5
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, status, rejectionReason, validatorID, now)
	if err != nil {
		return fmt.Errorf("failed to validate revision item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("revision item not found")
	}

	return nil
}

// CountOpenRevisionItems counts items that are not yet accepted. Finishing a
// seminar is blocked while this is non-zero.
func (r *Repository) CountOpenRevisionItems(ctx context.Context, seminarID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM revision_items WHERE seminar_id = $1 AND status <> 'accepted'`,
		seminarID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open revision items: %w", err)
	}
	return count, nil
}
