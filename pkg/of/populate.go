package of

import (
	"log/slog"
)

// DefaultBusMatchTable lists the compatible strings of bus containers
// whose children are devices.
var DefaultBusMatchTable = []string{"simple-bus", "simple-mfd", "isa", "arm,amba-bus"}

// Populate finds every node compatible with one of matches and calls
// create for each of its children that is available and has a compatible
// string. Other children are skipped. The first error from create stops
// population.
func Populate(t *Tree, matches []string, logger *slog.Logger, create func(*Node) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, bus := range t.FindCompatible(matches...) {
		logger.Debug("bus node", "node", bus.FullName(), "compatible", bus.Compatible())
		for _, child := range bus.children {
			if len(child.Compatible()) == 0 {
				logger.Debug("skipping node without compatible", "node", child.FullName())
				continue
			}
			if !child.IsAvailable() {
				logger.Debug("skipping disabled node", "node", child.FullName())
				continue
			}
			if err := create(child); err != nil {
				return err
			}
		}
	}
	return nil
}
