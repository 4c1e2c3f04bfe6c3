package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

// HistoryRepository owns the append-only message history, keyed by
// contact. Written only after a confirmed send.
type HistoryRepository struct {
	DB *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) Append(ctx context.Context, e entity.HistoryEntry) error {
	query := `
		INSERT INTO message_history (contact_id, sent_at, message, channel)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.DB.ExecContext(ctx, query, e.ContactID, e.SentAt, e.Message, e.Channel)
	return err
}

// Recent returns the most recent n entries for a contact in
// chronological order, the shape the text generator consumes.
func (r *HistoryRepository) Recent(ctx context.Context, contactID string, n int) ([]entity.HistoryEntry, error) {
	query := `
		SELECT contact_id, sent_at, message, channel FROM (
			SELECT contact_id, sent_at, message, channel
			FROM message_history
			WHERE contact_id = $1
			ORDER BY sent_at DESC
			LIMIT $2
		) recent
		ORDER BY sent_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, contactID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.HistoryEntry
	for rows.Next() {
		var e entity.HistoryEntry
		if err := rows.Scan(&e.ContactID, &e.SentAt, &e.Message, &e.Channel); err != nil {
			log.Printf("Erro ao escanear histórico: %v", err)
			continue
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
