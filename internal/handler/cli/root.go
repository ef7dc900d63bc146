// Package cli renders the calendar views in a terminal.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cleanops/calendar-backend/internal/domain/calendar"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/spf13/cobra"
)

// Options are the global flags shared by every command.
type Options struct {
	Mock       bool
	WebhookURL string
	Regions    []string
	Search     string
	Status     string
}

func (o Options) criteria() cleaner.Criteria {
	var regions []string
	for _, r := range o.Regions {
		if r = strings.TrimSpace(r); r != "" {
			regions = append(regions, r)
		}
	}
	return cleaner.Criteria{Regions: regions, Search: o.Search, Status: o.Status}
}

// ServiceFactory builds a calendar service with a loaded snapshot.
type ServiceFactory func(ctx context.Context, opts Options) (calendar.CalendarService, error)

type app struct {
	opts    Options
	factory ServiceFactory
	service calendar.CalendarService
}

func (a *app) load(cmd *cobra.Command) (calendar.CalendarService, error) {
	if a.service != nil {
		return a.service, nil
	}
	svc, err := a.factory(cmd.Context(), a.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar data: %w", err)
	}
	a.service = svc
	return svc, nil
}

// NewRootCommand builds the calendar command tree.
func NewRootCommand(factory ServiceFactory) *cobra.Command {
	a := &app{factory: factory}

	root := &cobra.Command{
		Use:   "calendar",
		Short: "Cleaner scheduling calendar",
		Long: `Show cleaner availability and bookings from the calendar webhook.

Examples:
  calendar week --mock                     # Demo data, current week
  calendar day --date 2024-01-08 -r Triad  # One region, period view
  calendar hours --search ashley           # Hour-by-hour grid
  calendar month --month 2024-01`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&a.opts.Mock, "mock", false, "use the built-in demo data set")
	flags.StringVar(&a.opts.WebhookURL, "webhook", "", "webhook base URL (default $WEBHOOK_BASE_URL)")
	flags.StringSliceVarP(&a.opts.Regions, "region", "r", nil, "only show these regions")
	flags.StringVarP(&a.opts.Search, "search", "s", "", "match name, email or phone")
	flags.StringVar(&a.opts.Status, "status", "", "only show cleaners with this status")

	root.AddCommand(
		newWeekCommand(a),
		newDayCommand(a),
		newHoursCommand(a),
		newMonthCommand(a),
		newCleanersCommand(a),
		newStatsCommand(a),
	)
	return root
}
