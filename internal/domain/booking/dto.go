package booking

import (
	"strings"

	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
	"github.com/cleanops/calendar-backend/internal/pkg/validator"
)

// ServiceTypes are the jobs the booking endpoint accepts.
var ServiceTypes = []string{"standard", "deep", "move_out", "post_construction"}

const DefaultServiceType = "standard"

type BookJobRequest struct {
	CleanerID   string `json:"cleaner_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Customer    string `json:"customer"`
	Address     string `json:"address"`
	ServiceType string `json:"service_type"`
	Duration    int    `json:"duration"`
	Notes       string `json:"notes,omitempty"`
}

// Validate checks the request shape. Whether the cleaner exists and is free
// is decided by the service against the current snapshot.
func (r *BookJobRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CleanerID) {
		errs.Add("cleaner_id", "cleaner_id is required")
	}

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	start, err := timegrid.ParseGridHour(r.Time)
	if err != nil {
		errs.Add("time", "time must be an hour between 8am and 8pm")
	}

	if validator.IsEmpty(r.Customer) {
		errs.Add("customer", "customer is required")
	} else if strings.Contains(r.Customer, "|") {
		errs.Add("customer", "customer must not contain '|'")
	}
	if strings.Contains(r.Address, "|") {
		errs.Add("address", "address must not contain '|'")
	}

	if r.ServiceType != "" && !validator.IsInSlice(r.ServiceType, ServiceTypes) {
		errs.Add("service_type", "service_type must be one of: "+strings.Join(ServiceTypes, ", "))
	}

	switch {
	case r.Duration < 1:
		errs.Add("duration", "duration must be at least 1 hour")
	case err == nil && start+timegrid.Hour(r.Duration) > timegrid.ClosingHour:
		errs.Add("duration", "booking must end by "+timegrid.ClosingHour.Label())
	}

	if len(r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}

	return errs.Err()
}

// Hours lists the grid hours the booking occupies. Call after Validate.
func (r *BookJobRequest) Hours() []timegrid.Hour {
	start, err := timegrid.ParseGridHour(r.Time)
	if err != nil {
		return nil
	}
	out := make([]timegrid.Hour, 0, r.Duration)
	for h := start; h < start+timegrid.Hour(r.Duration) && h.OnGrid(); h++ {
		out = append(out, h)
	}
	return out
}

type BookJobResponse struct {
	Success   bool   `json:"success"`
	JobNumber string `json:"job_number,omitempty"`
	Message   string `json:"message,omitempty"`
}

type AvailabilityRequest struct {
	Date        string `json:"date"`
	TimeSlot    string `json:"time_slot"`
	Region      string `json:"region,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
}

func (r *AvailabilityRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if _, err := timegrid.ParseGridHour(r.TimeSlot); err != nil {
		errs.Add("time_slot", "time_slot must be an hour between 8am and 8pm")
	}
	if r.ServiceType != "" && !validator.IsInSlice(r.ServiceType, ServiceTypes) {
		errs.Add("service_type", "service_type must be one of: "+strings.Join(ServiceTypes, ", "))
	}

	return errs.Err()
}

// Candidate is a cleaner offered for an availability request, best first.
type Candidate struct {
	CleanerID string  `json:"cleaner_id"`
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason,omitempty"`
}

type AvailabilityResponse struct {
	Date       string      `json:"date"`
	TimeSlot   string      `json:"time_slot"`
	Candidates []Candidate `json:"candidates"`
}
