// Package webhook talks to the remote calendar and booking endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cleanops/calendar-backend/internal/config"
	"github.com/cleanops/calendar-backend/internal/domain/booking"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

const (
	calendarDataPath      = "/calendar-data"
	bookJobPath           = "/book-job"
	checkAvailabilityPath = "/check-availability"

	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 4 << 10
)

// ErrCircuitOpen is returned while the breaker rejects calls after
// repeated failures.
var ErrCircuitOpen = errors.New("webhook circuit breaker is open")

// APIError is a non-2xx answer from the webhook.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("webhook error [%d] %s: %s", e.StatusCode, e.Path, e.Message)
}

// Temporary reports whether retrying later may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client calls the webhook endpoints through a circuit breaker.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
}

func NewClient(cfg config.WebhookConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "webhook")

	settings := gobreaker.Settings{
		Name:        "webhook",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Temporary()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger,
	}
}

// FetchCalendarData implements cleaner.Source. The endpoint may answer with
// a bare array or with {"cleaners": [...]}.
func (c *Client) FetchCalendarData(ctx context.Context) ([]cleaner.Cleaner, error) {
	body, err := c.do(ctx, http.MethodGet, calendarDataPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeCleaners(body)
}

func decodeCleaners(body []byte) ([]cleaner.Cleaner, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Cleaners []cleaner.Cleaner `json:"cleaners"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode calendar data: %w", err)
		}
		return envelope.Cleaners, nil
	}

	var cleaners []cleaner.Cleaner
	if err := json.Unmarshal(trimmed, &cleaners); err != nil {
		return nil, fmt.Errorf("decode calendar data: %w", err)
	}
	return cleaners, nil
}

func (c *Client) BookJob(ctx context.Context, req booking.BookJobRequest) (booking.BookJobResponse, error) {
	var resp booking.BookJobResponse
	body, err := c.do(ctx, http.MethodPost, bookJobPath, req)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("decode book-job response: %w", err)
	}
	if !resp.Success {
		return resp, fmt.Errorf("%w: %s", booking.ErrBookingRejected, resp.Message)
	}
	return resp, nil
}

func (c *Client) CheckAvailability(ctx context.Context, req booking.AvailabilityRequest) (booking.AvailabilityResponse, error) {
	var resp booking.AvailabilityResponse
	body, err := c.do(ctx, http.MethodPost, checkAvailabilityPath, req)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("decode check-availability response: %w", err)
	}
	if resp.Candidates == nil {
		resp.Candidates = []booking.Candidate{}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	requestID := uuid.NewString()
	start := time.Now()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, requestID, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}

	attrs := []any{
		"method", method,
		"path", path,
		"request_id", requestID,
		"duration", time.Since(start),
	}
	if err != nil {
		c.logger.Error("webhook call failed", append(attrs, "error", err)...)
		return nil, err
	}
	c.logger.Debug("webhook call completed", append(attrs, "bytes", len(body))...)
	return body, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path, requestID string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Path: path, Message: string(bytes.TrimSpace(msg))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	return data, nil
}
