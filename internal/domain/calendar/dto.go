package calendar

import (
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/slot"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
	"github.com/cleanops/calendar-backend/internal/pkg/validator"
)

// ViewQuery selects a date and narrows the cleaner list. An empty Date
// means today.
type ViewQuery struct {
	Date     string
	Criteria cleaner.Criteria
}

func (q *ViewQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Date != "" {
		if _, ok := validator.IsValidDate(q.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

// MonthQuery selects a month as "YYYY-MM". An empty Month means this month.
type MonthQuery struct {
	Month    string
	Criteria cleaner.Criteria
}

func (q *MonthQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Month != "" {
		if _, ok := validator.IsValidMonth(q.Month); !ok {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}
	return errs.Err()
}

type StatsQuery struct {
	Scope    string
	Date     string
	Criteria cleaner.Criteria
}

func (q *StatsQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Scope != "" && !validator.IsInSlice(q.Scope, []string{"day", "week", "month"}) {
		errs.Add("scope", "scope must be one of: day, week, month")
	}
	if q.Date != "" {
		if _, ok := validator.IsValidDate(q.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

// CleanerRef is the cleaner header shown on every row.
type CleanerRef struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	FullName string         `json:"full_name,omitempty"`
	Region   cleaner.Region `json:"region"`
	Status   string         `json:"status,omitempty"`
	Tier     cleaner.Tier   `json:"tier"`
}

// Counts tallies engaged slots: available and booked.
type Counts struct {
	Available int `json:"available"`
	Booked    int `json:"booked"`
}

// Summary is the stats strip shown under every view.
type Summary struct {
	Granularity       string `json:"granularity"`
	From              string `json:"from"`
	To                string `json:"to"`
	TotalCleaners     int    `json:"total_cleaners"`
	AvailableCleaners int    `json:"available_cleaners"`
	AvailableSlots    int    `json:"available_slots"`
	BookedSlots       int    `json:"booked_slots"`
	Utilization       int    `json:"utilization"`
}

type HourCell struct {
	Hour      string      `json:"hour"`
	Status    slot.Status `json:"status"`
	Malformed bool        `json:"malformed,omitempty"`
}

// TimeSpan is a booked run; End is exclusive.
type TimeSpan struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Job   string `json:"job"`
	Hours int    `json:"hours"`
	Label string `json:"label"`
}

// Block is one cell of a period row, covering one or more adjacent
// periods. Span is the actual booked time range of the block's job.
type Block struct {
	Periods     []timegrid.Period `json:"periods"`
	Colspan     int               `json:"colspan"`
	Status      slot.Kind         `json:"status"`
	Booking     *slot.Status      `json:"booking,omitempty"`
	Span        *TimeSpan         `json:"span,omitempty"`
	Conflict    bool              `json:"conflict,omitempty"`
	HasSchedule bool              `json:"has_schedule"`
}

type DayHeader struct {
	Date string `json:"date"`
	Day  string `json:"day"`
}

type PeriodHeader struct {
	Name  string `json:"name"`
	Range string `json:"range"`
}

type HourlyRow struct {
	Cleaner     CleanerRef `json:"cleaner"`
	HasSchedule bool       `json:"has_schedule"`
	Cells       []HourCell `json:"cells"`
	Spans       []TimeSpan `json:"spans"`
	Counts      Counts     `json:"counts"`
}

type HourlyView struct {
	Date       string      `json:"date"`
	Day        string      `json:"day"`
	Hours      []string    `json:"hours"`
	Rows       []HourlyRow `json:"rows"`
	Unassigned *HourlyRow  `json:"unassigned,omitempty"`
	Stats      Summary     `json:"stats"`
}

type DailyRow struct {
	Cleaner     CleanerRef `json:"cleaner"`
	HasSchedule bool       `json:"has_schedule"`
	Blocks      []Block    `json:"blocks"`
	Counts      Counts     `json:"counts"`
}

type DailyView struct {
	Date       string         `json:"date"`
	Day        string         `json:"day"`
	Periods    []PeriodHeader `json:"periods"`
	Rows       []DailyRow     `json:"rows"`
	Unassigned *DailyRow      `json:"unassigned,omitempty"`
	Stats      Summary        `json:"stats"`
}

type WeeklyCell struct {
	DayHeader
	Blocks []Block `json:"blocks"`
	Counts Counts  `json:"counts"`
}

type WeeklyRow struct {
	Cleaner     CleanerRef   `json:"cleaner"`
	HasSchedule bool         `json:"has_schedule"`
	Days        []WeeklyCell `json:"days"`
	Counts      Counts       `json:"counts"`
	Utilization int          `json:"utilization"`
}

type WeeklyView struct {
	WeekStarting string         `json:"week_starting"`
	Days         []DayHeader    `json:"days"`
	Periods      []PeriodHeader `json:"periods"`
	Rows         []WeeklyRow    `json:"rows"`
	Unassigned   *WeeklyRow     `json:"unassigned,omitempty"`
	Stats        Summary        `json:"stats"`
}

// MonthDay is one cell of the month grid. Days outside the month pad the
// first and last weeks and carry no counts.
type MonthDay struct {
	DayHeader
	DayOfMonth        int  `json:"day_of_month"`
	InMonth           bool `json:"in_month"`
	AvailableCleaners int  `json:"available_cleaners"`
	AvailableSlots    int  `json:"available_slots"`
	BookedSlots       int  `json:"booked_slots"`
	Utilization       int  `json:"utilization"`
}

type MonthlyView struct {
	Month string       `json:"month"`
	Days  []string     `json:"days"`
	Weeks [][]MonthDay `json:"weeks"`
	Stats Summary      `json:"stats"`
}

type CleanerCard struct {
	CleanerRef
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	Rate        float64 `json:"rate,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	JobCount    int     `json:"job_count"`
	HasSchedule bool    `json:"has_schedule"`
	Week        Counts  `json:"week"`
	Utilization int     `json:"utilization"`
	Today       []Block `json:"today"`
}

type DirectoryView struct {
	Date         string        `json:"date"`
	WeekStarting string        `json:"week_starting"`
	Cards        []CleanerCard `json:"cards"`
	Stats        Summary       `json:"stats"`
}
