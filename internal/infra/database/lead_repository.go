package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

// LeadRepository persists leads. The orchestrator is assumed to be the
// only writer, so plain read-modify-write is used instead of
// optimistic locking; multi-instance deployment would need a revision
// column and compare-and-swap here.
type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// FindUncontacted returns leads pending outreach in store order.
func (r *LeadRepository) FindUncontacted(ctx context.Context) ([]*entity.Lead, error) {
	query := `
		SELECT id, source_id, contact_id, contact_name, body_text,
		       COALESCE(source_url, ''), contacted, COALESCE(phone_hint, ''),
		       created_at, updated_at
		FROM leads
		WHERE contacted = FALSE
		ORDER BY created_at, id
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		var l entity.Lead
		if err := rows.Scan(
			&l.ID, &l.SourceID, &l.ContactID, &l.ContactName, &l.BodyText,
			&l.SourceURL, &l.Contacted, &l.PhoneHint,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			log.Printf("Erro ao escanear lead: %v", err)
			continue
		}
		leads = append(leads, &l)
	}

	return leads, rows.Err()
}

func (r *LeadRepository) MarkContacted(ctx context.Context, leadID string) error {
	query := `UPDATE leads SET contacted = TRUE, updated_at = NOW() WHERE id = $1`

	result, err := r.DB.ExecContext(ctx, query, leadID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) UpdatePhone(ctx context.Context, leadID, phone string) error {
	query := `UPDATE leads SET phone_hint = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.DB.ExecContext(ctx, query, leadID, phone)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// Upsert inserts a lead keyed on source_id. Re-ingestion of the same
// post refreshes the display fields but never resurrects a contacted
// lead or creates a duplicate.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, source_id, contact_id, contact_name, body_text,
		                   source_url, contacted, phone_hint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, NOW(), NOW())
		ON CONFLICT (source_id)
		DO UPDATE SET
			contact_name = EXCLUDED.contact_name,
			source_url = COALESCE(NULLIF(EXCLUDED.source_url, ''), leads.source_url),
			updated_at = NOW()
		RETURNING id, contacted, created_at, updated_at
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.SourceID,
		lead.ContactID,
		lead.ContactName,
		lead.BodyText,
		lead.SourceURL,
		nullString(lead.PhoneHint),
	).Scan(&lead.ID, &lead.Contacted, &lead.CreatedAt, &lead.UpdatedAt)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
