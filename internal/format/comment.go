package format

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/minhduc152001/tik-live-cms/internal/archive"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
)

// HistoryHeaders are the columns of an archived comment table.
var HistoryHeaders = []string{"Created At", "Target", "Name", "Handle", "Comment"}

// HistoryRows converts archived records into table cells.
func HistoryRows(records []archive.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			stamp(r.Event).Local().Format("2006-01-02 15:04:05"),
			r.Target,
			r.Event.Author(),
			handle(r.Event),
			r.Event.Text,
		})
	}
	return rows
}

// Printer writes live comments and connection changes as they happen.
type Printer struct {
	w      io.Writer
	pretty bool
}

// NewPrinter creates a printer. With pretty unset no colors are emitted.
func NewPrinter(w io.Writer, pretty bool) *Printer {
	return &Printer{w: w, pretty: pretty}
}

// Comment prints one comment line.
func (p *Printer) Comment(e feed.Event) {
	timeStr := stamp(e).Local().Format("15:04:05")

	if !p.pretty {
		fmt.Fprintf(p.w, "[%s] %s (%s): %s\n", timeStr, e.Author(), handle(e), escapeNewlines(e.Text))
		return
	}
	fmt.Fprintf(p.w, "%s %s %s %s\n",
		color.HiBlackString(timeStr),
		color.CyanString(e.Author()),
		color.HiBlackString("@"+handle(e)),
		e.Text)
}

// State prints a connection state change.
func (p *Printer) State(s feed.Session) {
	line := StateLabel(s)
	if !p.pretty {
		fmt.Fprintf(p.w, "-- %s\n", line)
		return
	}
	switch s.State {
	case feed.Open:
		fmt.Fprintln(p.w, color.GreenString("● "+line))
	case feed.Connecting:
		fmt.Fprintln(p.w, color.YellowString("◌ "+line))
	default:
		fmt.Fprintln(p.w, color.RedString("○ "+line))
	}
}

// StateLabel describes a session state for people. Transport errors are
// reported as retries rather than raw messages.
func StateLabel(s feed.Session) string {
	switch s.State {
	case feed.Idle:
		return "Not connected"
	case feed.Connecting:
		if s.Attempts > 1 {
			return fmt.Sprintf("Connecting / retrying (attempt %d)", s.Attempts)
		}
		return "Connecting to " + s.Target
	case feed.Open:
		return "Live: " + s.Target
	case feed.Closed:
		return "Disconnected from " + s.Target
	case feed.Errored:
		return "Connection lost, retrying"
	default:
		return s.State.String()
	}
}

// stamp is the backend time of a comment, or its arrival time when the
// backend sent none.
func stamp(e feed.Event) time.Time {
	if e.CreatedAt.IsZero() {
		return e.ReceivedAt
	}
	return e.CreatedAt
}

func handle(e feed.Event) string {
	if e.SourceHandle != "" {
		return e.SourceHandle
	}
	return e.SourceUserID
}
