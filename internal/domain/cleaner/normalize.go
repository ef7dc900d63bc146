package cleaner

import (
	"fmt"

	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
)

// Issue describes a schedule entry that had to be corrected or dropped
// while normalizing a fetched snapshot.
type Issue struct {
	CleanerID    string
	WeekStarting string
	Err          error
}

func (i Issue) Error() string {
	return fmt.Sprintf("cleaner %s week %q: %v", i.CleanerID, i.WeekStarting, i.Err)
}

// Normalize returns a copy of cleaners in which every weekStarting is the
// Monday of its week and each cleaner holds at most one schedule per week.
// When two entries land on the same week the later one wins.
func Normalize(cleaners []Cleaner) ([]Cleaner, []Issue) {
	var issues []Issue
	out := make([]Cleaner, 0, len(cleaners))

	for _, c := range cleaners {
		index := make(map[string]int, len(c.Schedule))
		schedules := make([]WeeklySchedule, 0, len(c.Schedule))

		for _, ws := range c.Schedule {
			key, err := timegrid.NormalizeWeekKey(ws.WeekStarting)
			if err != nil {
				issues = append(issues, Issue{CleanerID: c.ID, WeekStarting: ws.WeekStarting, Err: ErrInvalidWeekStarting})
				continue
			}
			if key != ws.WeekStarting {
				issues = append(issues, Issue{CleanerID: c.ID, WeekStarting: ws.WeekStarting, Err: ErrWeekNotMonday})
			}
			ws.WeekStarting = key

			if i, dup := index[key]; dup {
				issues = append(issues, Issue{CleanerID: c.ID, WeekStarting: key, Err: ErrDuplicateWeek})
				schedules[i] = ws
				continue
			}
			index[key] = len(schedules)
			schedules = append(schedules, ws)
		}

		c.Schedule = schedules
		out = append(out, c)
	}
	return out, issues
}
