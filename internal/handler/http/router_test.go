package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cleanops/calendar-backend/internal/domain/calendar"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/fixtures"
	"github.com/cleanops/calendar-backend/internal/pkg/cron"
	"github.com/cleanops/calendar-backend/internal/pkg/sse"
	"github.com/cleanops/calendar-backend/internal/repository/memory"
	"github.com/cleanops/calendar-backend/internal/service/aggregator"
	bookingService "github.com/cleanops/calendar-backend/internal/service/booking"
	calendarService "github.com/cleanops/calendar-backend/internal/service/calendar"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *chi.Mux
	jobs   *cron.RefreshJobs
}

func newTestEnv(t *testing.T, load bool) *testEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	src := fixtures.NewMockSource(fixtures.ReferenceWeek)
	repo := memory.NewSnapshotRepository()
	regions := cleaner.NewRegionDirectory(cleaner.DefaultRegions()...)
	hub := sse.NewHub()
	jobs := cron.NewRefreshJobs(src, repo, regions, hub, logger)
	if load {
		_, err := jobs.Refresh(context.Background())
		require.NoError(t, err)
	}

	calSvc := calendarService.NewCalendarService(repo, regions, aggregator.New(logger))
	bookSvc := bookingService.NewBookingService(src, repo, jobs, logger)

	stream := NewStreamHandler(hub, calSvc).(*streamHandlerImpl)
	stream.keepalive = 50 * time.Millisecond

	router := NewRouter(
		logger,
		[]string{"http://localhost:3000"},
		NewCalendarHandler(calSvc, jobs),
		NewBookingHandler(bookSvc),
		stream,
	)
	return &testEnv{router: router, jobs: jobs}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		FetchedAt *time.Time `json:"fetched_at"`
		Stale     bool       `json:"stale"`
	} `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

type rowsPayload struct {
	Rows []struct {
		Cleaner struct {
			ID string `json:"id"`
		} `json:"cleaner"`
	} `json:"rows"`
	Stats calendar.Summary `json:"stats"`
}

func TestDailyView(t *testing.T) {
	env := newTestEnv(t, true)

	rec, body := env.do(t, http.MethodGet, "/api/v1/calendar/daily?date=2024-01-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	require.NotNil(t, body.Meta)
	assert.NotNil(t, body.Meta.FetchedAt)
	assert.False(t, body.Meta.Stale)

	var view rowsPayload
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Len(t, view.Rows, 12)
	assert.Equal(t, 69, view.Stats.AvailableSlots)
	assert.Equal(t, 41, view.Stats.BookedSlots)
	assert.Equal(t, 37, view.Stats.Utilization)
}

func TestRegionFilterForms(t *testing.T) {
	env := newTestEnv(t, true)

	for _, target := range []string{
		"/api/v1/calendar/hourly?date=2024-01-08&region=Charlotte,Triad",
		"/api/v1/calendar/hourly?date=2024-01-08&region=Charlotte&region=Triad",
		"/api/v1/calendar/hourly?date=2024-01-08&region=Charlotte,%20Triad,",
	} {
		rec, body := env.do(t, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, rec.Code, target)

		var view rowsPayload
		require.NoError(t, json.Unmarshal(body.Data, &view))
		assert.Len(t, view.Rows, 8, target)
	}
}

func TestSearchAndStatusFilter(t *testing.T) {
	env := newTestEnv(t, true)

	rec, body := env.do(t, http.MethodGet, "/api/v1/calendar/weekly?date=2024-01-10&search=ash&region=Charlotte", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view rowsPayload
	require.NoError(t, json.Unmarshal(body.Data, &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "C01", view.Rows[0].Cleaner.ID)

	_, body = env.do(t, http.MethodGet, "/api/v1/calendar/daily?date=2024-01-08&status=on_leave", nil)
	require.NoError(t, json.Unmarshal(body.Data, &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "C12", view.Rows[0].Cleaner.ID)
}

func TestMonthlyAndStats(t *testing.T) {
	env := newTestEnv(t, true)

	rec, body := env.do(t, http.MethodGet, "/api/v1/calendar/monthly?month=2024-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var month struct {
		Weeks [][]json.RawMessage `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &month))
	assert.Len(t, month.Weeks, 5)

	rec, body = env.do(t, http.MethodGet, "/api/v1/calendar/stats?scope=day&date=2024-01-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats calendar.Summary
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, "day", stats.Granularity)
	assert.Equal(t, 12, stats.TotalCleaners)
	assert.Equal(t, 9, stats.AvailableCleaners)
}

func TestInvalidQueries(t *testing.T) {
	env := newTestEnv(t, true)

	cases := []struct {
		target string
		field  string
	}{
		{"/api/v1/calendar/daily?date=08-01-2024", "date"},
		{"/api/v1/calendar/monthly?month=2024-13", "month"},
		{"/api/v1/calendar/stats?scope=year", "scope"},
		{"/api/v1/cleaners?date=tomorrow", "date"},
	}
	for _, c := range cases {
		rec, body := env.do(t, http.MethodGet, c.target, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, c.target)
		require.NotNil(t, body.Error, c.target)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Contains(t, body.Error.Details, c.field)
	}
}

func TestViewsBeforeFirstSnapshot(t *testing.T) {
	env := newTestEnv(t, false)

	rec, body := env.do(t, http.MethodGet, "/api/v1/calendar/weekly", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)

	rec, body = env.do(t, http.MethodGet, "/api/v1/calendar/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status cleaner.SyncStatus
	require.NoError(t, json.Unmarshal(body.Data, &status))
	assert.False(t, status.HasSnapshot)

	rec, _ = env.do(t, http.MethodPost, "/api/v1/calendar/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/calendar/weekly?date=2024-01-08", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDirectoryAndRegions(t *testing.T) {
	env := newTestEnv(t, true)

	rec, body := env.do(t, http.MethodGet, "/api/v1/cleaners?date=2024-01-10&region=Raleigh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dir struct {
		Cards []struct {
			ID string `json:"id"`
		} `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &dir))
	assert.Len(t, dir.Cards, 4)

	rec, body = env.do(t, http.MethodGet, "/api/v1/regions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var regions []cleaner.Region
	require.NoError(t, json.Unmarshal(body.Data, &regions))
	assert.NotEmpty(t, regions)
}

func TestBookingFlow(t *testing.T) {
	env := newTestEnv(t, true)

	req := map[string]any{
		"cleaner_id": "C01",
		"date":       "2024-01-08",
		"time":       "1pm",
		"customer":   "Harris",
		"address":    "12 Elm St",
		"duration":   2,
	}

	rec, body := env.do(t, http.MethodPost, "/api/v1/bookings", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var booked struct {
		JobNumber string `json:"job_number"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &booked))
	assert.Equal(t, "50001", booked.JobNumber)

	rec, body = env.do(t, http.MethodPost, "/api/v1/bookings", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "CONFLICT", body.Error.Code)

	req["cleaner_id"] = "C99"
	rec, _ = env.do(t, http.MethodPost, "/api/v1/bookings", req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/v1/bookings", `{"cleaner_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)

	rec, body = env.do(t, http.MethodPost, "/api/v1/bookings", map[string]any{"cleaner_id": "C01"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body.Error.Details, "customer")
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	env := newTestEnv(t, true)

	rec, body := env.do(t, http.MethodPost, "/api/v1/bookings/check-availability", map[string]any{
		"date":      "2024-01-08",
		"time_slot": "8am",
		"region":    "Charlotte",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Candidates []struct {
			CleanerID string `json:"cleaner_id"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &resp))
	require.Len(t, resp.Candidates, 3)
	assert.Equal(t, "C04", resp.Candidates[0].CleanerID)
}

func TestSelectionDraftEndpoint(t *testing.T) {
	env := newTestEnv(t, true)

	rec, body := env.do(t, http.MethodPost, "/api/v1/bookings/selection", map[string]any{
		"cleaner_id": "C01",
		"date":       "2024-01-08",
		"events": []map[string]string{
			{"type": "start", "hour": "3pm"},
			{"type": "move", "hour": "1pm"},
			{"type": "end"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var draft struct {
		Selection struct {
			Phase string `json:"phase"`
		} `json:"selection"`
		Request *struct {
			Time     string `json:"time"`
			Duration int    `json:"duration"`
		} `json:"request"`
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &draft))
	assert.Equal(t, "selected", draft.Selection.Phase)
	require.NotNil(t, draft.Request)
	assert.Equal(t, "1pm", draft.Request.Time)
	assert.Equal(t, 3, draft.Request.Duration)
	assert.True(t, draft.Available)
}

func TestHeartbeat(t *testing.T) {
	env := newTestEnv(t, false)
	rec, _ := env.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStreamAnnouncesSnapshots(t *testing.T) {
	env := newTestEnv(t, true)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/calendar/stream", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	waitFor := func(prefix string) string {
		t.Helper()
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed before %q", prefix)
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-ctx.Done():
				t.Fatalf("timed out waiting for %q", prefix)
			}
		}
	}

	waitFor("event: connected")
	waitFor("event: ping")

	_, err = env.jobs.Refresh(context.Background())
	require.NoError(t, err)

	id := waitFor("id: ")
	assert.Greater(t, len(id), len("id: "))
	assert.Equal(t, "event: snapshot", waitFor("event: snapshot"))
	data := waitFor("data: ")
	assert.Contains(t, data, `"cleaner_count":13`)
}
