// Package fixtures holds the demo data set served in mock mode and used by
// tests across the module.
package fixtures

import (
	"fmt"
	"strings"
	"time"

	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/slot"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
)

// ReferenceWeek is a fixed Monday used by tests that need stable dates.
var ReferenceWeek = time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)

type profile struct {
	id, name, fullName, region, phone, status string
	rate                                      float64
	jobs                                      int
}

var profiles = []profile{
	{"C01", "Ashley B.", "Ashley Brooks", "Charlotte", "704-555-0101", "active", 32, 62},
	{"C02", "Maria L.", "Maria Lopez", "Charlotte", "704-555-0102", "active", 28, 25},
	{"C03", "Derek H.", "Derek Hill", "Charlotte", "704-555-0103", "inactive", 25, 4},
	{"C04", "Tanya R.", "Tanya Reed", "Charlotte", "704-555-0104", "active", 27, 19},
	{"C05", "Jordan N.", "Jordan Nash", "Triad", "336-555-0105", "active", 30, 51},
	{"C06", "Priya P.", "Priya Patel", "Triad", "336-555-0106", "active", 29, 33},
	{"C07", "Kevin M.", "Kevin Moore", "Triad", "336-555-0107", "active", 26, 12},
	{"C08", "Lena O.", "Lena Ortiz", "Triad", "336-555-0108", "active", 27, 20},
	{"C09", "Sam C.", "Sam Carter", "Raleigh", "919-555-0109", "active", 31, 48},
	{"C10", "Grace K.", "Grace Kim", "Raleigh", "919-555-0110", "active", 33, 70},
	{"C11", "Omar H.", "Omar Haddad", "Raleigh", "919-555-0111", "active", 25, 8},
	{"C12", "Bella Y.", "Bella Young", "Raleigh", "919-555-0112", "on_leave", 28, 22},
}

var customers = []struct{ name, address string }{
	{"Smith", "12 Oak St"},
	{"Johnson", "404 Elm Ave"},
	{"Garcia", ""},
	{"Williams", "9 Pine Ct"},
	{"Brown", "77 Maple Dr"},
}

// Cleaners builds the twelve demo cleaners and the unassigned record, with
// schedules for the week of weekOf and the week after it.
func Cleaners(weekOf time.Time) []cleaner.Cleaner {
	monday := timegrid.WeekStart(weekOf)
	out := make([]cleaner.Cleaner, 0, len(profiles)+1)

	for i, p := range profiles {
		c := cleaner.Cleaner{
			ID:       p.id,
			Name:     p.name,
			FullName: p.fullName,
			Region:   p.region,
			Phone:    p.phone,
			Email:    fmt.Sprintf("%s@cleanops.test", emailLocal(p.fullName)),
			Rate:     p.rate,
			JobCount: p.jobs,
			Status:   p.status,
			Schedule: []cleaner.WeeklySchedule{},
		}
		if p.status != "inactive" {
			for w := 0; w < 2; w++ {
				c.Schedule = append(c.Schedule, week(i, w, monday.AddDate(0, 0, 7*w)))
			}
		}
		out = append(out, c)
	}

	// Kevin's first Tuesday morning holds two different jobs.
	if s := out[6].ScheduleFor(timegrid.WeekKey(monday)); s != nil {
		s.Set(timegrid.Tuesday, 8, slot.NewBooking("48801", "Smith", "12 Oak St"))
		s.Set(timegrid.Tuesday, 9, slot.NewBooking("48802", "Garcia", ""))
	}

	out = append(out, Unassigned(monday))
	return out
}

// Unassigned is the pseudo-cleaner carrying jobs nobody has taken yet.
func Unassigned(weekOf time.Time) cleaner.Cleaner {
	ws := cleaner.WeeklySchedule{WeekStarting: timegrid.WeekKey(weekOf)}
	for _, h := range []timegrid.Hour{8, 9} {
		ws.Set(timegrid.Monday, h, slot.NewBooking("49001", "Davis", "3 Birch Ln"))
	}
	ws.Set(timegrid.Thursday, 14, slot.NewBooking("49002", "Miller", ""))
	return cleaner.Cleaner{
		ID:       cleaner.UnassignedID,
		Name:     "Unassigned",
		Schedule: []cleaner.WeeklySchedule{ws},
	}
}

// week lays out Monday to Saturday from one of four day shapes; Sunday is
// left empty.
func week(i, w int, monday time.Time) cleaner.WeeklySchedule {
	ws := cleaner.WeeklySchedule{WeekStarting: monday.Format(timegrid.DateLayout)}
	for _, d := range timegrid.Days[:6] {
		job := fmt.Sprintf("%d", 40000+w*1000+i*10+int(d))
		cust := customers[(i+int(d))%len(customers)]
		booked := slot.NewBooking(job, cust.name, cust.address)
		available := slot.Status{Kind: slot.Available}
		unavailable := slot.Status{Kind: slot.Unavailable}

		for _, h := range timegrid.Hours {
			st := available
			switch (i + int(d) + w) % 4 {
			case 0:
				switch {
				case h >= 10 && h <= 12:
					st = booked
				case h >= 17:
					st = unavailable
				}
			case 1:
				switch {
				case h >= 12 && h <= 16:
					st = unavailable
				case h >= 17:
					st = booked
				}
			case 2:
				if h <= 11 {
					st = unavailable
				} else {
					st = booked
				}
			}
			ws.Set(d, h, st)
		}
	}
	return ws
}

func emailLocal(fullName string) string {
	return strings.ToLower(strings.ReplaceAll(fullName, " ", "."))
}
