package cleaner

import (
	"encoding/json"
	"fmt"

	"github.com/cleanops/calendar-backend/internal/domain/slot"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
)

// UnassignedID is the pseudo-cleaner holding jobs nobody has been given yet.
const UnassignedID = "unassigned"

const weekStartingField = "weekStarting"

type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

type Cleaner struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	FullName string           `json:"fullName,omitempty"`
	Region   string           `json:"region"`
	Phone    string           `json:"phone,omitempty"`
	Email    string           `json:"email,omitempty"`
	Rate     float64          `json:"rate,omitempty"`
	Notes    string           `json:"notes,omitempty"`
	JobCount int              `json:"job_count,omitempty"`
	Status   string           `json:"status,omitempty"`
	Schedule []WeeklySchedule `json:"schedule"`
}

// WeeklySchedule is one week of slot values keyed by "<Day>_<Hour>".
// On the wire the slot keys sit next to weekStarting in one flat object.
type WeeklySchedule struct {
	WeekStarting string
	Slots        map[string]string
}

func (c Cleaner) IsUnassigned() bool { return c.ID == UnassignedID }

// DisplayName prefers the full name when one was submitted.
func (c Cleaner) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.Name
}

// Tier buckets cleaners by completed job count.
func (c Cleaner) Tier() Tier {
	switch {
	case c.JobCount >= 50:
		return TierGold
	case c.JobCount >= 20:
		return TierSilver
	default:
		return TierBronze
	}
}

// ScheduleFor returns the schedule whose weekStarting equals weekKey, or nil.
func (c Cleaner) ScheduleFor(weekKey string) *WeeklySchedule {
	for i := range c.Schedule {
		if c.Schedule[i].WeekStarting == weekKey {
			return &c.Schedule[i]
		}
	}
	return nil
}

// Raw returns the wire value stored for one slot. A nil schedule has none.
func (w *WeeklySchedule) Raw(d timegrid.Day, h timegrid.Hour) string {
	if w == nil {
		return ""
	}
	return w.Slots[timegrid.SlotKey(d, h)]
}

// Status decodes one slot. Missing schedules and slots decode to NoData.
func (w *WeeklySchedule) Status(d timegrid.Day, h timegrid.Hour) (slot.Status, error) {
	return slot.Parse(w.Raw(d, h))
}

// Set writes a slot value, mostly for building fixtures.
func (w *WeeklySchedule) Set(d timegrid.Day, h timegrid.Hour, st slot.Status) {
	if w.Slots == nil {
		w.Slots = make(map[string]string)
	}
	raw := slot.Format(st)
	if raw == "" {
		delete(w.Slots, timegrid.SlotKey(d, h))
		return
	}
	w.Slots[timegrid.SlotKey(d, h)] = raw
}

func (w *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	out := WeeklySchedule{Slots: make(map[string]string, len(fields))}
	for key, value := range fields {
		if key == weekStartingField {
			if err := json.Unmarshal(value, &out.WeekStarting); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidWeekStarting, err)
			}
			continue
		}
		var raw string
		if err := json.Unmarshal(value, &raw); err != nil {
			// null or non-string slot values carry no status
			continue
		}
		out.Slots[key] = raw
	}
	*w = out
	return nil
}

func (w WeeklySchedule) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(w.Slots)+1)
	for k, v := range w.Slots {
		flat[k] = v
	}
	flat[weekStartingField] = w.WeekStarting
	return json.Marshal(flat)
}

// Clone returns a deep copy of c, schedules included.
func (c Cleaner) Clone() Cleaner {
	out := c
	if c.Schedule != nil {
		out.Schedule = make([]WeeklySchedule, len(c.Schedule))
		for i, ws := range c.Schedule {
			out.Schedule[i] = ws.Clone()
		}
	}
	return out
}

func (w WeeklySchedule) Clone() WeeklySchedule {
	out := WeeklySchedule{WeekStarting: w.WeekStarting}
	if w.Slots != nil {
		out.Slots = make(map[string]string, len(w.Slots))
		for k, v := range w.Slots {
			out.Slots[k] = v
		}
	}
	return out
}

// CloneAll deep-copies a cleaner list.
func CloneAll(cleaners []Cleaner) []Cleaner {
	if cleaners == nil {
		return nil
	}
	out := make([]Cleaner, len(cleaners))
	for i, c := range cleaners {
		out[i] = c.Clone()
	}
	return out
}
