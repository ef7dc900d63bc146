package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cleanops/calendar-backend/internal/domain/booking"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
	"github.com/cleanops/calendar-backend/internal/pkg/selection"
	"github.com/cleanops/calendar-backend/internal/pkg/validator"
	"github.com/cleanops/calendar-backend/internal/pkg/webhook"
	"github.com/cleanops/calendar-backend/internal/service/aggregator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var apiErr *webhook.APIError

	switch {
	// Snapshot errors
	case errors.Is(err, cleaner.ErrNoSnapshot):
		ServiceUnavailable(w, "Calendar data has not been loaded yet")
	case errors.Is(err, cleaner.ErrCleanerNotFound):
		NotFound(w, "Cleaner not found")

	// Booking errors
	case errors.Is(err, booking.ErrSlotNotAvailable):
		Conflict(w, err.Error())
	case errors.Is(err, booking.ErrBookingRejected):
		BadGateway(w, err.Error())

	// Webhook errors
	case errors.Is(err, webhook.ErrCircuitOpen):
		ServiceUnavailable(w, "Calendar endpoint is temporarily unavailable")
	case errors.As(err, &apiErr):
		BadGateway(w, "Calendar endpoint returned an error")

	// Argument errors
	case errors.Is(err, timegrid.ErrInvalidDate),
		errors.Is(err, timegrid.ErrUnknownHour),
		errors.Is(err, timegrid.ErrUnknownDay),
		errors.Is(err, timegrid.ErrUnknownPeriod),
		errors.Is(err, timegrid.ErrInvalidSlotKey),
		errors.Is(err, aggregator.ErrUnknownGranularity):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, selection.ErrUnknownEvent),
		errors.Is(err, selection.ErrNotSelecting),
		errors.Is(err, selection.ErrEmptySelection),
		errors.Is(err, selection.ErrAlreadySelected):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
