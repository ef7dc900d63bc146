package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	calendarHandler CalendarHandler,
	bookingHandler BookingHandler,
	streamHandler StreamHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/hourly", calendarHandler.Hourly)
			r.Get("/daily", calendarHandler.Daily)
			r.Get("/weekly", calendarHandler.Weekly)
			r.Get("/monthly", calendarHandler.Monthly)
			r.Get("/stats", calendarHandler.Stats)
			r.Get("/status", calendarHandler.Status)
			r.Post("/refresh", calendarHandler.Refresh)
			r.Get("/stream", streamHandler.Stream)
		})

		r.Get("/cleaners", calendarHandler.Directory)
		r.Get("/regions", calendarHandler.Regions)

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", bookingHandler.Book)
			r.Post("/check-availability", bookingHandler.CheckAvailability)
			r.Post("/selection", bookingHandler.Draft)
		})
	})
	return r
}
