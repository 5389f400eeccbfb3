package presenter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/playmatatu/gameglass/internal/glass"
	"github.com/playmatatu/gameglass/internal/ws"
)

var _ glass.PopupPresenter = (*Presenter)(nil)

type published struct {
	msgType string
	data    interface{}
}

type fakeBroadcaster struct {
	msgs []published
}

func (f *fakeBroadcaster) Publish(msgType string, data interface{}) {
	f.msgs = append(f.msgs, published{msgType, data})
}

type fakeRecorder struct {
	mu      sync.Mutex
	popups  []Popup
	err     error
	written chan struct{}
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{written: make(chan struct{}, 8)}
}

func (f *fakeRecorder) Record(ctx context.Context, popupID string, amount *float64, currency string) (int, error) {
	f.mu.Lock()
	f.popups = append(f.popups, Popup{PopupID: popupID, Amount: amount, Currency: currency})
	n := len(f.popups)
	f.mu.Unlock()
	f.written <- struct{}{}
	return n, f.err
}

func TestPresentPopupBroadcastsAndRecords(t *testing.T) {
	out := &fakeBroadcaster{}
	store := newFakeRecorder()
	p := New(out, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	amount := 125.5
	p.PresentPopup("winPopup", &amount, "€")
	amount = 0 // caller may reuse its variable

	if len(out.msgs) != 1 || out.msgs[0].msgType != ws.TypePopup {
		t.Fatalf("published = %+v", out.msgs)
	}
	popup := out.msgs[0].data.(Popup)
	if popup.PopupID != "winPopup" || popup.Amount == nil || *popup.Amount != 125.5 || popup.Currency != "€" {
		t.Errorf("popup = %+v", popup)
	}

	select {
	case <-store.written:
	case <-time.After(time.Second):
		t.Fatal("presentation not recorded")
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if got := store.popups[0]; got.PopupID != "winPopup" || *got.Amount != 125.5 {
		t.Errorf("recorded = %+v", got)
	}
}

func TestPresentPopupWithoutAmountOrStore(t *testing.T) {
	out := &fakeBroadcaster{}
	p := New(out, nil)
	p.Run(context.Background()) // no store: returns immediately

	p.PresentPopup("winPopup", nil, "$")
	popup := out.msgs[0].data.(Popup)
	if popup.Amount != nil {
		t.Errorf("amount = %v, want nil", *popup.Amount)
	}
}

func TestRecordFailureIsNotFatal(t *testing.T) {
	store := newFakeRecorder()
	store.err = errors.New("db down")
	p := New(&fakeBroadcaster{}, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	p.PresentPopup("a", nil, "€")
	p.PresentPopup("b", nil, "€")
	for i := 0; i < 2; i++ {
		select {
		case <-store.written:
		case <-time.After(time.Second):
			t.Fatalf("record %d not attempted", i)
		}
	}
}

func TestSimulationPresentsThroughPresenter(t *testing.T) {
	out := &fakeBroadcaster{}
	params := glass.DefaultParams()
	params.BallCount = 3
	params.Seed = 7
	sim, err := glass.NewSimulation(params, glass.WithPresenter(New(out, nil)))
	if err != nil {
		t.Fatal(err)
	}

	done, err := sim.RunWinSequence("winPopup", nil, "€")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 400 && len(out.msgs) == 0; i++ {
		sim.Advance(glass.FrameUnit)
	}
	if len(out.msgs) != 1 {
		t.Fatalf("popups = %d, want 1", len(out.msgs))
	}
	if o := <-done; o != glass.SequenceCompleted {
		t.Errorf("outcome = %s", o)
	}
}
