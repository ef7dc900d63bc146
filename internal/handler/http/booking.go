package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cleanops/calendar-backend/internal/domain/booking"
	"github.com/cleanops/calendar-backend/internal/handler/http/response"
)

type BookingHandler interface {
	// Book handles POST /bookings
	Book(w http.ResponseWriter, r *http.Request)
	// CheckAvailability handles POST /bookings/check-availability
	CheckAvailability(w http.ResponseWriter, r *http.Request)
	// Draft handles POST /bookings/selection
	Draft(w http.ResponseWriter, r *http.Request)
}

type bookingHandlerImpl struct {
	bookingService booking.BookingService
}

func NewBookingHandler(bookingService booking.BookingService) BookingHandler {
	return &bookingHandlerImpl{bookingService: bookingService}
}

func (h *bookingHandlerImpl) Book(w http.ResponseWriter, r *http.Request) {
	var req booking.BookJobRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Book decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.bookingService.Book(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Job booked successfully", result)
}

func (h *bookingHandlerImpl) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req booking.AvailabilityRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckAvailability decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.bookingService.CheckAvailability(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *bookingHandlerImpl) Draft(w http.ResponseWriter, r *http.Request) {
	var req booking.SelectionRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Draft decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.bookingService.Draft(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
