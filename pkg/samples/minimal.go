package samples

import "log/slog"

// Minimal is a module without a driver. It keeps a few numbers from init
// to exit.
type Minimal struct {
	numbers []int
	logger  *slog.Logger
}

// NewMinimal constructs the module.
func NewMinimal(logger *slog.Logger) (*Minimal, error) {
	logger = orDefault(logger)
	logger.Info("minimal sample (init)")
	return &Minimal{numbers: []int{72, 108, 200}, logger: logger}, nil
}

// Numbers returns the stored numbers.
func (m *Minimal) Numbers() []int {
	return m.numbers
}

// Exit logs the numbers.
func (m *Minimal) Exit() {
	m.logger.Info("minimal sample (exit)", "numbers", m.numbers)
}
