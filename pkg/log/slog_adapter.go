package log

import (
	"context"
	"log/slog"
)

// SlogAdapter prints trace events through an slog.Logger at Debug level,
// or Warn level for failures.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}
	if event.Bus != "" {
		attrs = append(attrs, slog.String("bus", event.Bus))
	}
	if event.Device != "" {
		attrs = append(attrs, slog.String("device", event.Device))
	}
	if event.Driver != "" {
		attrs = append(attrs, slog.String("driver", event.Driver))
	}

	switch {
	case event.Registration != nil:
		attrs = append(attrs, slog.String("kind", event.Registration.Kind.String()))
		if event.Registration.Kind == DriverAdded {
			attrs = append(attrs, slog.Int("matches", event.Registration.Matches))
		}
	case event.Probe != nil:
		attrs = append(attrs,
			slog.Int("entry", event.Probe.Entry),
			slog.Bool("success", event.Probe.Success),
			slog.Duration("duration", event.Probe.Duration),
		)
		if event.Probe.Err != "" {
			attrs = append(attrs, slog.String("error", event.Probe.Err))
		}
	case event.Remove != nil:
		attrs = append(attrs, slog.Bool("callback", event.Remove.Callback))
		if event.Remove.Err != "" {
			attrs = append(attrs, slog.String("error", event.Remove.Err))
		}
	case event.Initcall != nil:
		attrs = append(attrs,
			slog.String("initcall_level", event.Initcall.LevelName),
			slog.Int("offset", event.Initcall.Offset),
			slog.String("name", event.Initcall.Name),
			slog.Int("code", event.Initcall.Code),
			slog.Duration("duration", event.Initcall.Duration),
		)
	case event.IRQ != nil:
		attrs = append(attrs,
			slog.String("action", event.IRQ.Action.String()),
			slog.Uint64("irq", uint64(event.IRQ.IRQ)),
			slog.String("name", event.IRQ.Name),
		)
		if event.IRQ.Flags != "" {
			attrs = append(attrs, slog.String("flags", event.IRQ.Flags))
		}
	case event.Boot != nil:
		attrs = append(attrs,
			slog.String("old_state", event.Boot.OldState),
			slog.String("new_state", event.Boot.NewState),
		)
		if event.Boot.TreeDigest != "" {
			attrs = append(attrs, slog.String("tree_digest", event.Boot.TreeDigest))
		}
		if event.Boot.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Boot.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error", event.Error.Message),
			slog.String("context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("code", *event.Error.Code))
		}
	}

	level := slog.LevelDebug
	if IsFailure(event) {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, "devmodel", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
