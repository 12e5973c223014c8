package driver

import (
	"sync"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// Slot stores one private-data value per device. A value is set at most
// once per binding: Set fails with errcode.ErrBusy until Take clears it.
type Slot[D comparable, P any] struct {
	mu   sync.Mutex
	data map[D]P
}

// Set stores data for dev.
func (s *Slot[D, P]) Set(dev D, data P) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[dev]; ok {
		return errcode.ErrBusy
	}
	if s.data == nil {
		s.data = make(map[D]P)
	}
	s.data[dev] = data
	return nil
}

// Get returns the data stored for dev.
func (s *Slot[D, P]) Get(dev D) (P, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[dev]
	return p, ok
}

// Take removes and returns the data stored for dev. Only the first Take
// after a Set reports ok.
func (s *Slot[D, P]) Take(dev D) (P, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[dev]
	if ok {
		delete(s.data, dev)
	}
	return p, ok
}

// Len returns the number of devices holding data.
func (s *Slot[D, P]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
