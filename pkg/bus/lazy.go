package bus

import (
	"fmt"
	"sync"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// Lazy is a process-wide registry created on first use.
type Lazy[D Device] struct {
	mu  sync.Mutex
	cfg Config
	r   *Registry[D]
}

// NewLazy returns a Lazy that creates its registry with cfg.
func NewLazy[D Device](cfg Config) *Lazy[D] {
	return &Lazy[D]{cfg: cfg}
}

// Get returns the registry, creating it on the first call.
func (l *Lazy[D]) Get() *Registry[D] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.r == nil {
		l.r = NewRegistry[D](l.cfg)
	}
	return l.r
}

// Configure replaces the configuration. It fails with errcode.ErrBusy
// once the registry exists.
func (l *Lazy[D]) Configure(cfg Config) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.r != nil {
		return fmt.Errorf("%s: default registry already created: %w", l.cfg.Name, errcode.ErrBusy)
	}
	l.cfg = cfg
	return nil
}
