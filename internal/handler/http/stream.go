package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cleanops/calendar-backend/internal/domain/calendar"
	"github.com/cleanops/calendar-backend/internal/pkg/sse"
)

type StreamHandler interface {
	// Stream handles GET /calendar/stream
	Stream(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	hub             *sse.Hub
	calendarService calendar.CalendarService
	keepalive       time.Duration
}

func NewStreamHandler(hub *sse.Hub, calendarService calendar.CalendarService) StreamHandler {
	return &streamHandlerImpl{
		hub:             hub,
		calendarService: calendarService,
		keepalive:       30 * time.Second,
	}
}

// Stream tells connected clients when a new snapshot has been stored so
// they can reload the view they are showing.
func (h *streamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(sse.TopicCalendar)
	defer cleanup()

	// Send initial connection event with the current snapshot status
	status, _ := json.Marshal(h.calendarService.Status(r.Context()))
	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", status)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
