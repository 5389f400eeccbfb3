package presenter

import (
	"context"
	"log"
	"time"

	"github.com/playmatatu/gameglass/internal/ws"
)

const (
	recordBuffer  = 32
	recordTimeout = 5 * time.Second
)

// Broadcaster delivers a typed message to viewers.
type Broadcaster interface {
	Publish(msgType string, data interface{})
}

// Recorder stores presented popups.
type Recorder interface {
	Record(ctx context.Context, popupID string, amount *float64, currency string) (int, error)
}

// Popup is the payload viewers receive when a win popup is shown.
type Popup struct {
	PopupID     string    `json:"popup_id"`
	Amount      *float64  `json:"amount"`
	Currency    string    `json:"currency"`
	PresentedAt time.Time `json:"presented_at"`
}

// Presenter shows win popups on every viewer and records them. It implements
// glass.PopupPresenter; PresentPopup never blocks the simulation.
type Presenter struct {
	out     Broadcaster
	store   Recorder
	records chan Popup
	now     func() time.Time
}

// New creates a presenter. store may be nil when no database is configured.
func New(out Broadcaster, store Recorder) *Presenter {
	return &Presenter{
		out:     out,
		store:   store,
		records: make(chan Popup, recordBuffer),
		now:     time.Now,
	}
}

func (p *Presenter) PresentPopup(popupID string, amount *float64, currency string) {
	popup := Popup{
		PopupID:     popupID,
		Currency:    currency,
		PresentedAt: p.now(),
	}
	if amount != nil {
		v := *amount
		popup.Amount = &v
	}

	p.out.Publish(ws.TypePopup, popup)
	log.Printf("[PRESENTER] Popup %s presented", popupID)

	if p.store == nil {
		return
	}
	select {
	case p.records <- popup:
	default:
		log.Printf("[PRESENTER] Record queue full, popup %s not recorded", popupID)
	}
}

// Run writes queued presentations to the store until ctx is cancelled.
func (p *Presenter) Run(ctx context.Context) {
	if p.store == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case popup := <-p.records:
			p.record(ctx, popup)
		}
	}
}

func (p *Presenter) record(ctx context.Context, popup Popup) {
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	id, err := p.store.Record(ctx, popup.PopupID, popup.Amount, popup.Currency)
	if err != nil {
		log.Printf("[DB] Failed to record popup %s: %v", popup.PopupID, err)
		return
	}
	log.Printf("[DB] Popup %s recorded as presentation %d", popup.PopupID, id)
}
