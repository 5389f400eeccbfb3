package glass

import (
	"errors"
	"log"
	"time"
)

var ErrSequenceInFlight = errors.New("win sequence already running")

// Phase is the cursor of a win sequence.
type Phase int

const (
	PhaseWindUp Phase = iota
	PhaseWindWait
	PhaseWindDown
	PhaseRevealWait
	PhasePresent
	PhaseReset
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseWindUp:
		return "wind_up"
	case PhaseWindWait:
		return "wind_wait"
	case PhaseWindDown:
		return "wind_down"
	case PhaseRevealWait:
		return "reveal_wait"
	case PhasePresent:
		return "present"
	case PhaseReset:
		return "reset"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// SequenceOutcome is delivered once on a win sequence's completion channel.
type SequenceOutcome int

const (
	SequenceCompleted SequenceOutcome = iota
	SequenceCancelled
)

func (o SequenceOutcome) String() string {
	if o == SequenceCompleted {
		return "completed"
	}
	return "cancelled"
}

// WinSequence is one run of wind -> reveal -> popup -> reset. It is driven by
// the owning Simulation once per frame; a scene reset from outside bumps the
// simulation generation and invalidates it.
type WinSequence struct {
	PopupID  string
	Amount   *float64
	Currency string

	generation uint64
	phase      Phase
	elapsedMs  float64
	done       chan SequenceOutcome
}

// Phase returns the current cursor.
func (w *WinSequence) Phase() Phase {
	return w.phase
}

func (w *WinSequence) finish(o SequenceOutcome) {
	w.phase = PhaseDone
	w.done <- o
	close(w.done)
}

// RunWinSequence starts a win sequence. The returned channel receives a single
// outcome and is then closed. While a sequence is in flight further calls are
// rejected with ErrSequenceInFlight; ResetScene cancels the running one.
func (s *Simulation) RunWinSequence(popupID string, amount *float64, currency string) (<-chan SequenceOutcome, error) {
	s.reapSequence()
	if s.sequence != nil {
		return nil, ErrSequenceInFlight
	}

	seq := &WinSequence{
		PopupID:    popupID,
		Amount:     amount,
		Currency:   currency,
		generation: s.generation,
		phase:      PhaseWindUp,
		done:       make(chan SequenceOutcome, 1),
	}
	s.sequence = seq
	log.Printf("[GLASS] Win sequence started: popup=%s generation=%d", popupID, seq.generation)
	s.emit(EventSequenceStarted, map[string]interface{}{"popup_id": popupID})

	// Everything up to the first wait happens synchronously.
	s.advanceSequence(0)
	return seq.done, nil
}

// SequencePhase returns the phase of the in-flight sequence, or PhaseDone.
func (s *Simulation) SequencePhase() Phase {
	if s.sequence == nil {
		return PhaseDone
	}
	return s.sequence.phase
}

// reapSequence cancels a sequence started before the last scene reset.
func (s *Simulation) reapSequence() {
	seq := s.sequence
	if seq == nil || seq.generation == s.generation {
		return
	}
	s.sequence = nil
	log.Printf("[GLASS] Win sequence cancelled by reset: popup=%s phase=%s", seq.PopupID, seq.phase)
	seq.finish(SequenceCancelled)
	s.emit(EventSequenceCancelled, map[string]interface{}{"popup_id": seq.PopupID})
}

func msOf(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// advanceSequence moves the in-flight sequence forward by elapsedMs, running
// every action whose wait has expired.
func (s *Simulation) advanceSequence(elapsedMs float64) {
	s.reapSequence()
	seq := s.sequence
	if seq == nil {
		return
	}
	seq.elapsedMs += elapsedMs

	for {
		switch seq.phase {
		case PhaseWindUp:
			s.setWind(true)
			seq.phase = PhaseWindWait
			seq.elapsedMs = 0

		case PhaseWindWait:
			wait := msOf(s.params.WindDuration)
			if seq.elapsedMs < wait {
				return
			}
			seq.elapsedMs -= wait
			seq.phase = PhaseWindDown

		case PhaseWindDown:
			s.setWind(false)
			s.ShowRevealBall()
			seq.phase = PhaseRevealWait

		case PhaseRevealWait:
			wait := msOf(s.params.RevealDuration + s.params.RevealBuffer)
			if seq.elapsedMs < wait {
				return
			}
			seq.elapsedMs -= wait
			seq.phase = PhasePresent

		case PhasePresent:
			s.presenter.PresentPopup(seq.PopupID, seq.Amount, seq.Currency)
			data := map[string]interface{}{"popup_id": seq.PopupID, "currency": seq.Currency}
			if seq.Amount != nil {
				data["amount"] = *seq.Amount
			}
			s.emit(EventPopupPresented, data)
			seq.phase = PhaseReset

		case PhaseReset:
			s.sequence = nil
			s.ResetScene()
			log.Printf("[GLASS] Win sequence finished: popup=%s", seq.PopupID)
			seq.finish(SequenceCompleted)
			s.emit(EventSequenceFinished, map[string]interface{}{"popup_id": seq.PopupID})
			return

		default:
			return
		}
	}
}
