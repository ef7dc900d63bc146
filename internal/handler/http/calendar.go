package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/cleanops/calendar-backend/internal/domain/calendar"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/handler/http/response"
)

type CalendarHandler interface {
	// Hourly handles GET /calendar/hourly
	Hourly(w http.ResponseWriter, r *http.Request)
	// Daily handles GET /calendar/daily
	Daily(w http.ResponseWriter, r *http.Request)
	// Weekly handles GET /calendar/weekly
	Weekly(w http.ResponseWriter, r *http.Request)
	// Monthly handles GET /calendar/monthly
	Monthly(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Directory(w http.ResponseWriter, r *http.Request)
	Regions(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	// Refresh handles POST /calendar/refresh
	Refresh(w http.ResponseWriter, r *http.Request)
}

// Refresher pulls a new snapshot on demand.
type Refresher interface {
	Refresh(ctx context.Context) (cleaner.Snapshot, error)
}

type calendarHandlerImpl struct {
	calendarService calendar.CalendarService
	refresher       Refresher
}

func NewCalendarHandler(calendarService calendar.CalendarService, refresher Refresher) CalendarHandler {
	return &calendarHandlerImpl{
		calendarService: calendarService,
		refresher:       refresher,
	}
}

// criteriaFromQuery reads region, search and status. Region may repeat or
// hold a comma separated list.
func criteriaFromQuery(r *http.Request) cleaner.Criteria {
	q := r.URL.Query()
	var regions []string
	for _, value := range q["region"] {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				regions = append(regions, part)
			}
		}
	}
	return cleaner.Criteria{
		Regions: regions,
		Search:  q.Get("search"),
		Status:  strings.TrimSpace(q.Get("status")),
	}
}

func viewQuery(r *http.Request) calendar.ViewQuery {
	return calendar.ViewQuery{
		Date:     r.URL.Query().Get("date"), // format: YYYY-MM-DD, default: today
		Criteria: criteriaFromQuery(r),
	}
}

func (h *calendarHandlerImpl) meta(ctx context.Context) *response.Meta {
	status := h.calendarService.Status(ctx)
	return &response.Meta{
		FetchedAt: status.FetchedAt,
		Stale:     status.LastError != "",
		LastError: status.LastError,
	}
}

func (h *calendarHandlerImpl) Hourly(w http.ResponseWriter, r *http.Request) {
	result, err := h.calendarService.Hourly(r.Context(), viewQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, h.meta(r.Context()))
}

func (h *calendarHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	result, err := h.calendarService.Daily(r.Context(), viewQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, h.meta(r.Context()))
}

func (h *calendarHandlerImpl) Weekly(w http.ResponseWriter, r *http.Request) {
	result, err := h.calendarService.Weekly(r.Context(), viewQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, h.meta(r.Context()))
}

func (h *calendarHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	query := calendar.MonthQuery{
		Month:    r.URL.Query().Get("month"), // format: YYYY-MM, default: current month
		Criteria: criteriaFromQuery(r),
	}

	result, err := h.calendarService.Monthly(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, h.meta(r.Context()))
}

// Stats handles GET /calendar/stats?scope=day|week|month
func (h *calendarHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	query := calendar.StatsQuery{
		Scope:    r.URL.Query().Get("scope"),
		Date:     r.URL.Query().Get("date"),
		Criteria: criteriaFromQuery(r),
	}

	result, err := h.calendarService.Stats(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, h.meta(r.Context()))
}

// Directory handles GET /cleaners
func (h *calendarHandlerImpl) Directory(w http.ResponseWriter, r *http.Request) {
	result, err := h.calendarService.Directory(r.Context(), viewQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, h.meta(r.Context()))
}

func (h *calendarHandlerImpl) Regions(w http.ResponseWriter, r *http.Request) {
	result, err := h.calendarService.Regions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *calendarHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.calendarService.Status(r.Context()))
}

func (h *calendarHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	if _, err := h.refresher.Refresh(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Calendar data refreshed", h.calendarService.Status(r.Context()))
}
