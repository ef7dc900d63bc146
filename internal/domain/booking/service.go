package booking

import (
	"context"

	"github.com/cleanops/calendar-backend/internal/pkg/selection"
)

// Gateway writes bookings to the external booking endpoint.
type Gateway interface {
	BookJob(ctx context.Context, req BookJobRequest) (BookJobResponse, error)
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (AvailabilityResponse, error)
}

type BookingService interface {
	Book(ctx context.Context, req BookJobRequest) (*BookJobResponse, error)
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error)
	// Draft folds drag-selection events into a booking request skeleton.
	Draft(ctx context.Context, req SelectionRequest) (*DraftResponse, error)
}

// SelectionRequest carries the pointer events of one drag gesture.
type SelectionRequest struct {
	CleanerID string            `json:"cleaner_id"`
	Date      string            `json:"date"`
	Events    []selection.Event `json:"events"`
}

type DraftResponse struct {
	Selection selection.State `json:"selection"`
	Request   *BookJobRequest `json:"request,omitempty"`
	Available bool            `json:"available"`
}
