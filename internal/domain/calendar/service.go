package calendar

import (
	"context"

	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
)

type CalendarService interface {
	Hourly(ctx context.Context, q ViewQuery) (*HourlyView, error)
	Daily(ctx context.Context, q ViewQuery) (*DailyView, error)
	Weekly(ctx context.Context, q ViewQuery) (*WeeklyView, error)
	Monthly(ctx context.Context, q MonthQuery) (*MonthlyView, error)
	Stats(ctx context.Context, q StatsQuery) (*Summary, error)
	Directory(ctx context.Context, q ViewQuery) (*DirectoryView, error)
	Regions(ctx context.Context) ([]cleaner.Region, error)
	Status(ctx context.Context) cleaner.SyncStatus
}
