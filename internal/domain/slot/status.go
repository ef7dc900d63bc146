package slot

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the state of one hourly slot.
type Kind int

const (
	// NoData means nothing usable was submitted for the slot.
	NoData Kind = iota
	Available
	Booked
	Unavailable
)

const (
	availableWire   = "AVAILABLE"
	unavailableWire = "UNAVAILABLE"
	bookedWire      = "BOOKED"
	fieldSeparator  = " | "
)

var kindNames = map[Kind]string{
	NoData:      "no_data",
	Available:   "available",
	Booked:      "booked",
	Unavailable: "unavailable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnrecognizedStatus, s)
}

// Status is a decoded slot value. Job, Customer and Address are set only
// for Booked slots, and a Booked status always carries a job number.
type Status struct {
	Kind     Kind   `json:"kind"`
	Job      string `json:"job,omitempty"`
	Customer string `json:"customer,omitempty"`
	Address  string `json:"address,omitempty"`
}

func (s Status) IsBooked() bool { return s.Kind == Booked && s.Job != "" }

// SameJob reports whether both statuses are bookings of one job.
func (s Status) SameJob(other Status) bool {
	return s.IsBooked() && other.IsBooked() && s.Job == other.Job
}

// Parse decodes a wire slot value. Malformed values decode to NoData along
// with an error describing why, so aggregation never sees a booking without
// a job number.
func Parse(raw string) (Status, error) {
	switch {
	case raw == "":
		return Status{Kind: NoData}, nil
	case raw == availableWire:
		return Status{Kind: Available}, nil
	case raw == unavailableWire:
		return Status{Kind: Unavailable}, nil
	case raw == bookedWire || strings.HasPrefix(raw, bookedWire+" "):
		return parseBooking(strings.TrimPrefix(raw, bookedWire))
	default:
		return Status{Kind: NoData}, fmt.Errorf("%w: %q", ErrUnrecognizedStatus, raw)
	}
}

func parseBooking(rest string) (Status, error) {
	fields := strings.Split(rest, fieldSeparator)
	st := Status{Kind: Booked, Job: strings.TrimSpace(fields[0])}
	if len(fields) > 1 {
		st.Customer = strings.TrimSpace(fields[1])
	}
	if len(fields) > 2 {
		st.Address = strings.TrimSpace(fields[2])
	}
	if st.Job == "" {
		return Status{Kind: NoData}, ErrMissingJobNumber
	}
	return st, nil
}

// Format encodes s in wire form. The address segment is written only when
// present, and the customer segment only when it or the address is set.
func Format(s Status) string {
	switch s.Kind {
	case Available:
		return availableWire
	case Unavailable:
		return unavailableWire
	case Booked:
		out := bookedWire + " " + s.Job
		if s.Customer != "" || s.Address != "" {
			out += fieldSeparator + s.Customer
		}
		if s.Address != "" {
			out += fieldSeparator + s.Address
		}
		return out
	default:
		return ""
	}
}

// NewBooking builds a booked status.
func NewBooking(job, customer, address string) Status {
	return Status{Kind: Booked, Job: job, Customer: customer, Address: address}
}
