// Package selection folds pointer events of a drag gesture over the hour
// grid into a contiguous hour range. The reducer keeps no state of its own.
package selection

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
)

var (
	ErrUnknownEvent    = errors.New("unknown selection event")
	ErrNotSelecting    = errors.New("no drag in progress")
	ErrEmptySelection  = errors.New("selection is empty")
	ErrAlreadySelected = errors.New("selection already finished")
)

type EventType string

const (
	Start  EventType = "start"
	Move   EventType = "move"
	End    EventType = "end"
	Cancel EventType = "cancel"
)

type Event struct {
	Type EventType `json:"type"`
	Hour string    `json:"hour,omitempty"`
}

type Phase string

const (
	Idle      Phase = "idle"
	Selecting Phase = "selecting"
	Selected  Phase = "selected"
)

// State is the selection after some prefix of a gesture. Anchor is where
// the drag started; Cursor is the last hour the pointer reached.
type State struct {
	Phase  Phase
	Anchor timegrid.Hour
	Cursor timegrid.Hour
}

// Range returns the selected hours in order, whichever way the drag went.
func (s State) Range() (first, last timegrid.Hour, ok bool) {
	if s.Phase == Idle {
		return 0, 0, false
	}
	first, last = s.Anchor, s.Cursor
	if first > last {
		first, last = last, first
	}
	return first, last, true
}

// Hours lists every hour in the selection.
func (s State) Hours() []timegrid.Hour {
	first, last, ok := s.Range()
	if !ok {
		return nil
	}
	out := make([]timegrid.Hour, 0, int(last-first)+1)
	for h := first; h <= last; h++ {
		out = append(out, h)
	}
	return out
}

// Duration is the selection length in hours.
func (s State) Duration() int { return len(s.Hours()) }

func (s State) MarshalJSON() ([]byte, error) {
	out := struct {
		Phase    Phase    `json:"phase"`
		Start    string   `json:"start,omitempty"`
		End      string   `json:"end,omitempty"`
		Duration int      `json:"duration"`
		Hours    []string `json:"hours"`
	}{Phase: s.Phase, Hours: []string{}}
	if first, last, ok := s.Range(); ok {
		out.Start = first.Label()
		out.End = timegrid.EndOf(last).Label()
	}
	for _, h := range s.Hours() {
		out.Hours = append(out.Hours, h.Label())
		out.Duration++
	}
	return json.Marshal(out)
}

// Reduce applies one event. Invalid transitions return the input state
// unchanged along with an error.
func Reduce(s State, e Event) (State, error) {
	if s.Phase == "" {
		s.Phase = Idle
	}
	switch e.Type {
	case Start:
		h, err := timegrid.ParseGridHour(e.Hour)
		if err != nil {
			return s, err
		}
		return State{Phase: Selecting, Anchor: h, Cursor: h}, nil
	case Move:
		if s.Phase != Selecting {
			return s, ErrNotSelecting
		}
		h, err := timegrid.ParseGridHour(e.Hour)
		if err != nil {
			return s, err
		}
		s.Cursor = h
		return s, nil
	case End:
		switch s.Phase {
		case Selecting:
			s.Phase = Selected
			return s, nil
		case Selected:
			return s, ErrAlreadySelected
		default:
			return s, ErrNotSelecting
		}
	case Cancel:
		return State{Phase: Idle}, nil
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownEvent, string(e.Type))
	}
}

// Fold reduces a whole gesture from the idle state.
func Fold(events []Event) (State, error) {
	s := State{Phase: Idle}
	for i, e := range events {
		next, err := Reduce(s, e)
		if err != nil {
			return s, fmt.Errorf("event %d: %w", i, err)
		}
		s = next
	}
	return s, nil
}
