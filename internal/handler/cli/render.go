package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cleanops/calendar-backend/internal/domain/calendar"
	"github.com/cleanops/calendar-backend/internal/domain/slot"
)

const legend = "o available   # booked   - unavailable   ? no data   ! conflicting jobs"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func symbol(k slot.Kind) string {
	switch k {
	case slot.Available:
		return "o"
	case slot.Booked:
		return "#"
	case slot.Unavailable:
		return "-"
	default:
		return "?"
	}
}

// periodCode writes one character per period, so a merged block of two
// periods shows as two characters.
func periodCode(blocks []calendar.Block) string {
	var b strings.Builder
	for _, block := range blocks {
		s := symbol(block.Status)
		if block.Conflict {
			s = "!"
		}
		b.WriteString(strings.Repeat(s, block.Colspan))
	}
	return b.String()
}

// blockText describes a block for the period view.
func blockText(block calendar.Block) string {
	switch {
	case block.Conflict:
		return "! conflict"
	case block.Booking != nil && block.Booking.IsBooked():
		text := "#" + block.Booking.Job
		if block.Span != nil {
			text += " " + block.Span.Label
		}
		if block.Booking.Customer != "" {
			text += " " + truncate(block.Booking.Customer, 14)
		}
		return text
	case !block.HasSchedule:
		return "-"
	default:
		return block.Status.String()
	}
}

func countsText(c calendar.Counts) string {
	return fmt.Sprintf("%d/%d", c.Available, c.Booked)
}

// truncate shortens s to maxLen runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func printSummary(w io.Writer, s calendar.Summary) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "  %s to %s: %d cleaners, %d with open slots | %d available | %d booked | %d%% utilization\n",
		s.From, s.To, s.TotalCleaners, s.AvailableCleaners, s.AvailableSlots, s.BookedSlots, s.Utilization)
}
