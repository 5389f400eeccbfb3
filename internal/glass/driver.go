package glass

import (
	"context"
	"errors"
	"log"
	"runtime/debug"
	"time"
)

var ErrDriverStopped = errors.New("simulation driver stopped")

// Driver is the single goroutine that owns a Simulation. It advances the
// simulation on a ticker and serializes every external command between frames.
type Driver struct {
	sim      *Simulation
	interval time.Duration
	cmds     chan func(*Simulation)
	done     chan struct{}
	now      func() time.Time
}

// NewDriver creates a driver ticking at fps frames per second.
func NewDriver(sim *Simulation, fps int) *Driver {
	if fps <= 0 {
		fps = 60
	}
	return &Driver{
		sim:      sim,
		interval: time.Second / time.Duration(fps),
		cmds:     make(chan func(*Simulation)),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Run drives the simulation until ctx is cancelled. It must be called once.
func (d *Driver) Run(ctx context.Context) error {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	log.Printf("[GLASS] Driver started at %s per frame: %s", d.interval, d.sim)
	last := d.now()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[GLASS] Driver stopping: %s", d.sim)
			return ctx.Err()

		case fn := <-d.cmds:
			d.safely("command", func() { fn(d.sim) })

		case <-ticker.C:
			now := d.now()
			elapsed := now.Sub(last)
			last = now
			d.safely("frame", func() { d.sim.Advance(elapsed) })
		}
	}
}

// safely keeps the frame loop alive if a collaborator panics.
func (d *Driver) safely(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[GLASS] Recovered panic in %s: %v\n%s", what, r, debug.Stack())
		}
	}()
	fn()
}

// Do runs fn on the driver goroutine and waits for it to return. When Do
// returns an error fn may still be running, so callers must not read what fn
// writes.
func (d *Driver) Do(ctx context.Context, fn func(*Simulation)) error {
	finished := make(chan struct{})
	cmd := func(s *Simulation) {
		defer close(finished)
		fn(s)
	}

	select {
	case d.cmds <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		return ErrDriverStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		return ErrDriverStopped
	}
}

// ToggleWind flips the wind and returns the new state.
func (d *Driver) ToggleWind(ctx context.Context) (bool, error) {
	var active bool
	if err := d.Do(ctx, func(s *Simulation) { active = s.ToggleWind() }); err != nil {
		return false, err
	}
	return active, nil
}

// IsWindActive reports whether the wind is on.
func (d *Driver) IsWindActive(ctx context.Context) (bool, error) {
	var active bool
	if err := d.Do(ctx, func(s *Simulation) { active = s.IsWindActive() }); err != nil {
		return false, err
	}
	return active, nil
}

// ShowRevealBall creates the reveal ball if absent.
func (d *Driver) ShowRevealBall(ctx context.Context) error {
	return d.Do(ctx, func(s *Simulation) { s.ShowRevealBall() })
}

// ResetScene resets the scene and cancels any in-flight win sequence.
func (d *Driver) ResetScene(ctx context.Context) error {
	return d.Do(ctx, func(s *Simulation) { s.ResetScene() })
}

// RunWinSequence starts a win sequence; the returned channel reports its outcome.
func (d *Driver) RunWinSequence(ctx context.Context, popupID string, amount *float64, currency string) (<-chan SequenceOutcome, error) {
	var (
		done   <-chan SequenceOutcome
		runErr error
	)
	if err := d.Do(ctx, func(s *Simulation) {
		done, runErr = s.RunWinSequence(popupID, amount, currency)
	}); err != nil {
		return nil, err
	}
	return done, runErr
}

// Snapshot copies the current scene.
func (d *Driver) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if err := d.Do(ctx, func(s *Simulation) { snap = s.Snapshot() }); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
