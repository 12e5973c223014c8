// Package commands implements the devmodel-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/devmodel/devmodel-go/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [boot:id] CATEGORY bus device driver
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [boot:%s] %s", ts, shortenID(event.BootID), event.Category)
	for _, s := range []string{event.Bus, event.Device, event.Driver} {
		if s != "" {
			fmt.Fprintf(w, " %s", s)
		}
	}
	fmt.Fprintln(w)

	switch {
	case event.Registration != nil:
		formatRegistrationDetails(w, event.Registration)
	case event.Probe != nil:
		formatProbeDetails(w, event.Probe)
	case event.Remove != nil:
		formatRemoveDetails(w, event.Remove)
	case event.Initcall != nil:
		formatInitcallDetails(w, event.Initcall)
	case event.IRQ != nil:
		formatIRQDetails(w, event.IRQ)
	case event.Boot != nil:
		formatBootDetails(w, event.Boot)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of the boot ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatRegistrationDetails(w io.Writer, r *log.RegistrationEvent) {
	fmt.Fprintf(w, "  %s", r.Kind)
	if r.Kind == log.DriverAdded {
		fmt.Fprintf(w, " (%d matches)", r.Matches)
	}
	fmt.Fprintln(w)
}

func formatProbeDetails(w io.Writer, p *log.ProbeEvent) {
	result := "ok"
	if !p.Success {
		result = "FAILED"
	}
	fmt.Fprintf(w, "  Entry: %d  Result: %s  Duration: %s\n", p.Entry, result, formatDuration(p.Duration))
	if p.Err != "" {
		fmt.Fprintf(w, "  Error: %s\n", p.Err)
	}
}

func formatRemoveDetails(w io.Writer, r *log.RemoveEvent) {
	if r.Callback {
		fmt.Fprintln(w, "  Remove callback: yes")
	} else {
		fmt.Fprintln(w, "  Remove callback: no")
	}
	if r.Err != "" {
		fmt.Fprintf(w, "  Error: %s\n", r.Err)
	}
}

func formatInitcallDetails(w io.Writer, ic *log.InitcallEvent) {
	fmt.Fprintf(w, "  %s+%d %s -> %d (%s)\n", ic.LevelName, ic.Offset, ic.Name, ic.Code, formatDuration(ic.Duration))
}

func formatIRQDetails(w io.Writer, e *log.IRQEvent) {
	fmt.Fprintf(w, "  %s irq %d %q", e.Action, e.IRQ, e.Name)
	if e.Flags != "" {
		fmt.Fprintf(w, " flags=%s", e.Flags)
	}
	fmt.Fprintln(w)
}

func formatBootDetails(w io.Writer, b *log.BootEvent) {
	if b.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", b.OldState, b.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", b.NewState)
	}
	if b.TreeDigest != "" {
		fmt.Fprintf(w, "  Tree: %s\n", b.TreeDigest)
	}
	if b.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", b.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *err.Code)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	c, ok := log.ParseCategory(strings.ToUpper(s))
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be registration, probe, remove, initcall, irq, boot or error)", s)
	}
	return c, nil
}

// RunView prints the events of the log file that match filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
