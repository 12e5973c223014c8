package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/devmodel/devmodel-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Boots            map[string]*BootStats
	Drivers          map[string]*DriverStats
	Failures         int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// BootStats holds statistics for a single boot session.
type BootStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	State      string
	TreeDigest string
	Initcalls  int
	Slowest    string
	SlowestDur time.Duration
}

// DriverStats holds probe statistics for a single driver.
type DriverStats struct {
	Probes    int
	Failures  int
	Removes   int
	TotalTime time.Duration
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Boots:            make(map[string]*BootStats),
		Drivers:          make(map[string]*DriverStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	boot, ok := s.Boots[event.BootID]
	if !ok {
		boot = &BootStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Boots[event.BootID] = boot
	}
	boot.Events++
	if event.Timestamp.After(boot.LastSeen) {
		boot.LastSeen = event.Timestamp
	}

	switch {
	case event.Boot != nil:
		boot.State = event.Boot.NewState
		if event.Boot.TreeDigest != "" {
			boot.TreeDigest = event.Boot.TreeDigest
		}
	case event.Initcall != nil:
		boot.Initcalls++
		if event.Initcall.Duration > boot.SlowestDur {
			boot.Slowest = event.Initcall.Name
			boot.SlowestDur = event.Initcall.Duration
		}
	case event.Probe != nil && event.Driver != "":
		d := s.driver(event.Driver)
		d.Probes++
		d.TotalTime += event.Probe.Duration
		if !event.Probe.Success {
			d.Failures++
		}
	case event.Remove != nil && event.Driver != "":
		s.driver(event.Driver).Removes++
	}

	if log.IsFailure(event) {
		s.Failures++
	}
}

func (s *Stats) driver(name string) *DriverStats {
	d, ok := s.Drivers[name]
	if !ok {
		d = &DriverStats{}
		s.Drivers[name] = d
	}
	return d
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Driver Model Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", formatDuration(stats.TimeRange.End.Sub(stats.TimeRange.Start)))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Failures:     %d\n", stats.Failures)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for c := log.CategoryRegistration; c <= log.CategoryError; c++ {
		if count := stats.EventsByCategory[c]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", c.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.Boots) > 0 {
		fmt.Fprintf(w, "Boots (%d):\n", len(stats.Boots))

		ids := make([]string, 0, len(stats.Boots))
		for id := range stats.Boots {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			return stats.Boots[ids[i]].FirstSeen.Before(stats.Boots[ids[j]].FirstSeen)
		})

		for _, id := range ids {
			b := stats.Boots[id]
			fmt.Fprintf(w, "  %s:\n", shortenID(id))
			fmt.Fprintf(w, "    Events:    %d\n", b.Events)
			if b.State != "" {
				fmt.Fprintf(w, "    State:     %s\n", b.State)
			}
			if b.TreeDigest != "" {
				fmt.Fprintf(w, "    Tree:      %s\n", b.TreeDigest)
			}
			fmt.Fprintf(w, "    Initcalls: %d\n", b.Initcalls)
			if b.Slowest != "" {
				fmt.Fprintf(w, "    Slowest:   %s (%s)\n", b.Slowest, formatDuration(b.SlowestDur))
			}
		}
		fmt.Fprintln(w)
	}

	if len(stats.Drivers) > 0 {
		fmt.Fprintln(w, "Drivers:")

		names := make([]string, 0, len(stats.Drivers))
		for name := range stats.Drivers {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			d := stats.Drivers[name]
			fmt.Fprintf(w, "  %-24s probes=%d failed=%d removed=%d time=%s\n",
				name, d.Probes, d.Failures, d.Removes, formatDuration(d.TotalTime))
		}
	}
}
