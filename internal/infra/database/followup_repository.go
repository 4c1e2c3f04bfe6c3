package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

type FollowupRepository struct {
	DB *sql.DB
}

func NewFollowupRepository(db *sql.DB) *FollowupRepository {
	return &FollowupRepository{DB: db}
}

const followupColumns = `
	id, contact_id, contact_name, COALESCE(phone, ''), COALESCE(source_url, ''),
	due_at, COALESCE(message, ''), status, created_at, last_contacted_at, user_replied
`

func (r *FollowupRepository) Create(ctx context.Context, f *entity.Followup) error {
	query := `
		INSERT INTO followups (id, contact_id, contact_name, phone, source_url,
		                       due_at, message, status, created_at, last_contacted_at, user_replied)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.DB.ExecContext(ctx, query,
		f.ID,
		f.ContactID,
		f.ContactName,
		nullString(f.Phone),
		nullString(f.SourceURL),
		f.DueAt,
		nullString(f.Message),
		f.Status,
		f.CreatedAt,
		f.LastContactedAt,
		f.UserReplied,
	)
	return err
}

// FindActiveByContact returns the pending followup for a contact, nil
// when there is none.
func (r *FollowupRepository) FindActiveByContact(ctx context.Context, contactID string) (*entity.Followup, error) {
	query := `
		SELECT ` + followupColumns + `
		FROM followups
		WHERE contact_id = $1 AND status = 'pending'
		ORDER BY created_at
		LIMIT 1
	`

	f, err := r.scanOne(r.DB.QueryRowContext(ctx, query, contactID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

func (r *FollowupRepository) FindPending(ctx context.Context) ([]*entity.Followup, error) {
	query := `
		SELECT ` + followupColumns + `
		FROM followups
		WHERE status = 'pending'
		ORDER BY created_at, id
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var followups []*entity.Followup
	for rows.Next() {
		var f entity.Followup
		if err := rows.Scan(
			&f.ID, &f.ContactID, &f.ContactName, &f.Phone, &f.SourceURL,
			&f.DueAt, &f.Message, &f.Status, &f.CreatedAt, &f.LastContactedAt, &f.UserReplied,
		); err != nil {
			log.Printf("Erro ao escanear followup: %v", err)
			continue
		}
		followups = append(followups, &f)
	}

	return followups, rows.Err()
}

// Cancel moves a pending followup to cancelled. The status guard in
// the WHERE clause keeps completed/cancelled immutable.
func (r *FollowupRepository) Cancel(ctx context.Context, followupID string) error {
	query := `UPDATE followups SET status = 'cancelled' WHERE id = $1 AND status = 'pending'`

	result, err := r.DB.ExecContext(ctx, query, followupID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return r.guardMiss(ctx, followupID)
	}
	return nil
}

// Complete records the sent message and moves a pending followup to
// completed.
func (r *FollowupRepository) Complete(ctx context.Context, followupID, message string, at time.Time) error {
	query := `
		UPDATE followups
		SET status = 'completed', message = $2, last_contacted_at = $3
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.DB.ExecContext(ctx, query, followupID, message, at)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return r.guardMiss(ctx, followupID)
	}
	return nil
}

// guardMiss tells apart the two ways the status guard can match zero
// rows: the record does not exist, or it exists in a terminal status.
func (r *FollowupRepository) guardMiss(ctx context.Context, followupID string) error {
	var status string
	err := r.DB.QueryRowContext(ctx,
		`SELECT status FROM followups WHERE id = $1`, followupID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrFollowupNotFound
	}
	if err != nil {
		return err
	}
	return entity.ErrTerminalStatus
}

// MarkReplied flags the contact's pending followup; the next due-check
// sweep cancels it.
func (r *FollowupRepository) MarkReplied(ctx context.Context, contactID string) error {
	query := `UPDATE followups SET user_replied = TRUE WHERE contact_id = $1 AND status = 'pending'`

	_, err := r.DB.ExecContext(ctx, query, contactID)
	return err
}

func (r *FollowupRepository) scanOne(row *sql.Row) (*entity.Followup, error) {
	var f entity.Followup
	err := row.Scan(
		&f.ID, &f.ContactID, &f.ContactName, &f.Phone, &f.SourceURL,
		&f.DueAt, &f.Message, &f.Status, &f.CreatedAt, &f.LastContactedAt, &f.UserReplied,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
