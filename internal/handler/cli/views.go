package cli

import (
	"fmt"
	"strings"

	"github.com/cleanops/calendar-backend/internal/domain/calendar"
	"github.com/spf13/cobra"
)

func newWeekCommand(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:     "week",
		Short:   "Show the weekly grid",
		Aliases: []string{"w"},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.load(cmd)
			if err != nil {
				return err
			}
			view, err := svc.Weekly(cmd.Context(), calendar.ViewQuery{Date: date, Criteria: a.opts.criteria()})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  Week of %s\n\n", view.WeekStarting)

			tw := newTable(out)
			header := []string{"CLEANER"}
			for _, d := range view.Days {
				header = append(header, d.Day+" "+d.Date[8:])
			}
			header = append(header, "OPEN/BOOKED", "UTIL")
			fmt.Fprintln(tw, strings.Join(header, "\t"))

			rows := view.Rows
			if view.Unassigned != nil {
				rows = append(rows, *view.Unassigned)
			}
			for _, row := range rows {
				cells := []string{row.Cleaner.Name}
				for _, day := range row.Days {
					cells = append(cells, periodCode(day.Blocks))
				}
				cells = append(cells, countsText(row.Counts), fmt.Sprintf("%d%%", row.Utilization))
				fmt.Fprintln(tw, strings.Join(cells, "\t"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n  %s\n", legend)
			printSummary(out, view.Stats)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "any date in the week (YYYY-MM-DD, default today)")
	return cmd
}

func newDayCommand(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show one day by period",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.load(cmd)
			if err != nil {
				return err
			}
			view, err := svc.Daily(cmd.Context(), calendar.ViewQuery{Date: date, Criteria: a.opts.criteria()})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  %s %s\n\n", view.Day, view.Date)

			tw := newTable(out)
			header := []string{"CLEANER"}
			for _, p := range view.Periods {
				header = append(header, strings.ToUpper(p.Name)+" "+p.Range)
			}
			header = append(header, "OPEN/BOOKED")
			fmt.Fprintln(tw, strings.Join(header, "\t"))

			rows := view.Rows
			if view.Unassigned != nil {
				rows = append(rows, *view.Unassigned)
			}
			for _, row := range rows {
				cells := []string{row.Cleaner.Name}
				for _, block := range row.Blocks {
					cells = append(cells, blockText(block))
					for i := 1; i < block.Colspan; i++ {
						cells = append(cells, "<<")
					}
				}
				cells = append(cells, countsText(row.Counts))
				fmt.Fprintln(tw, strings.Join(cells, "\t"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			printSummary(out, view.Stats)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date (YYYY-MM-DD, default today)")
	return cmd
}

func newHoursCommand(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Show one day hour by hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.load(cmd)
			if err != nil {
				return err
			}
			view, err := svc.Hourly(cmd.Context(), calendar.ViewQuery{Date: date, Criteria: a.opts.criteria()})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  %s %s\n\n", view.Day, view.Date)

			tw := newTable(out)
			header := append([]string{"CLEANER"}, view.Hours...)
			header = append(header, "JOBS")
			fmt.Fprintln(tw, strings.Join(header, "\t"))

			rows := view.Rows
			if view.Unassigned != nil {
				rows = append(rows, *view.Unassigned)
			}
			for _, row := range rows {
				cells := []string{row.Cleaner.Name}
				for _, cell := range row.Cells {
					s := symbol(cell.Status.Kind)
					if cell.Malformed {
						s = "?"
					}
					cells = append(cells, s)
				}
				var jobs []string
				for _, span := range row.Spans {
					jobs = append(jobs, "#"+span.Job+" "+span.Label)
				}
				cells = append(cells, strings.Join(jobs, ", "))
				fmt.Fprintln(tw, strings.Join(cells, "\t"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n  %s\n", legend)
			printSummary(out, view.Stats)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date (YYYY-MM-DD, default today)")
	return cmd
}

func newMonthCommand(a *app) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show utilization for every day of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.load(cmd)
			if err != nil {
				return err
			}
			view, err := svc.Monthly(cmd.Context(), calendar.MonthQuery{Month: month, Criteria: a.opts.criteria()})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  %s (booked %% per day)\n\n", view.Month)

			tw := newTable(out)
			fmt.Fprintln(tw, strings.Join(view.Days, "\t"))
			for _, week := range view.Weeks {
				cells := make([]string, 0, len(week))
				for _, day := range week {
					if !day.InMonth {
						cells = append(cells, ".")
						continue
					}
					if day.AvailableSlots+day.BookedSlots == 0 {
						cells = append(cells, fmt.Sprintf("%2d", day.DayOfMonth))
						continue
					}
					cells = append(cells, fmt.Sprintf("%2d %3d%%", day.DayOfMonth, day.Utilization))
				}
				fmt.Fprintln(tw, strings.Join(cells, "\t"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			printSummary(out, view.Stats)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "month (YYYY-MM, default this month)")
	return cmd
}

func newCleanersCommand(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "cleaners",
		Short: "List cleaners with their week at a glance",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.load(cmd)
			if err != nil {
				return err
			}
			view, err := svc.Directory(cmd.Context(), calendar.ViewQuery{Date: date, Criteria: a.opts.criteria()})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  Cleaners, week of %s\n\n", view.WeekStarting)

			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tNAME\tREGION\tTIER\tSTATUS\tPHONE\tJOBS\tOPEN/BOOKED\tUTIL\tTODAY")
			for _, card := range view.Cards {
				name := card.FullName
				if name == "" {
					name = card.Name
				}
				today := periodCode(card.Today)
				if !card.HasSchedule {
					today = "no schedule"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%d%%\t%s\n",
					card.ID,
					truncate(name, 24),
					card.Region.Label,
					card.Tier,
					card.Status,
					card.Phone,
					card.JobCount,
					countsText(card.Week),
					card.Utilization,
					today,
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "any date in the week (YYYY-MM-DD, default today)")
	return cmd
}

func newStatsCommand(a *app) *cobra.Command {
	var scope, date string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.load(cmd)
			if err != nil {
				return err
			}
			s, err := svc.Stats(cmd.Context(), calendar.StatsQuery{Scope: scope, Date: date, Criteria: a.opts.criteria()})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := newTable(out)
			fmt.Fprintf(tw, "scope\t%s\n", s.Granularity)
			fmt.Fprintf(tw, "from\t%s\n", s.From)
			fmt.Fprintf(tw, "to\t%s\n", s.To)
			fmt.Fprintf(tw, "cleaners\t%d\n", s.TotalCleaners)
			fmt.Fprintf(tw, "cleaners with open slots\t%d\n", s.AvailableCleaners)
			fmt.Fprintf(tw, "available slots\t%d\n", s.AvailableSlots)
			fmt.Fprintf(tw, "booked slots\t%d\n", s.BookedSlots)
			fmt.Fprintf(tw, "utilization\t%d%%\n", s.Utilization)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "week", "day, week or month")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date inside the scope (YYYY-MM-DD, default today)")
	return cmd
}
