package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/gameglass/internal/models"
)

// PresentationStore is the audit log of win popups.
type PresentationStore struct {
	db *sqlx.DB
}

func NewPresentationStore(db *sqlx.DB) *PresentationStore {
	return &PresentationStore{db: db}
}

// Record inserts a presentation and returns its id.
func (s *PresentationStore) Record(ctx context.Context, popupID string, amount *float64, currency string) (int, error) {
	var amt sql.NullFloat64
	if amount != nil {
		amt = sql.NullFloat64{Float64: *amount, Valid: true}
	}

	var id int
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO popup_presentations (popup_id, amount, currency, presented_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`, popupID, amt, currency).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("record presentation %s: %w", popupID, err)
	}
	return id, nil
}

// Recent returns the latest presentations, newest first.
func (s *PresentationStore) Recent(ctx context.Context, limit int) ([]models.PopupPresentation, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var out []models.PopupPresentation
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, popup_id, amount, currency, presented_at
		FROM popup_presentations
		ORDER BY presented_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	return out, nil
}
