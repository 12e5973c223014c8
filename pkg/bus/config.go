package bus

import (
	"log/slog"

	"github.com/devmodel/devmodel-go/pkg/log"
)

// Config configures a Registry.
type Config struct {
	// Name is the bus class name used in errors and trace events.
	Name string

	// ProbeOnDeviceAdd matches a newly registered device against the
	// drivers already registered. When false, devices are only matched
	// when a driver is registered.
	ProbeOnDeviceAdd bool

	// Logger receives operational messages. Nil uses slog.Default().
	Logger *slog.Logger

	// Trace receives driver-model events. Nil disables tracing.
	Trace log.Logger
}

// DefaultConfig returns the configuration for a bus class called name.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		ProbeOnDeviceAdd: true,
	}
}
