package models

import (
	"database/sql"
	"time"
)

// PopupPresentation is one win popup shown to viewers.
type PopupPresentation struct {
	ID          int             `db:"id" json:"id"`
	PopupID     string          `db:"popup_id" json:"popup_id"`
	Amount      sql.NullFloat64 `db:"amount" json:"-"`
	Currency    string          `db:"currency" json:"currency"`
	PresentedAt time.Time       `db:"presented_at" json:"presented_at"`
}

// AmountValue returns the amount, or nil when the popup was shown without one.
func (p PopupPresentation) AmountValue() *float64 {
	if !p.Amount.Valid {
		return nil
	}
	v := p.Amount.Float64
	return &v
}
