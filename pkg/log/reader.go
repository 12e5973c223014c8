package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects trace events. Zero-valued fields match everything.
type Filter struct {
	BootID   string
	Bus      string
	Device   string
	Driver   string
	Category *Category

	// TimeStart keeps events at or after this time.
	TimeStart *time.Time

	// TimeEnd keeps events strictly before this time.
	TimeEnd *time.Time

	// FailuresOnly keeps failed probes, negative initcalls and errors.
	FailuresOnly bool
}

// Match reports whether the event passes every criterion.
func (f *Filter) Match(event Event) bool {
	switch {
	case f.BootID != "" && event.BootID != f.BootID:
		return false
	case f.Bus != "" && event.Bus != f.Bus:
		return false
	case f.Device != "" && event.Device != f.Device:
		return false
	case f.Driver != "" && event.Driver != f.Driver:
		return false
	case f.Category != nil && event.Category != *f.Category:
		return false
	case f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart):
		return false
	case f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	case f.FailuresOnly && !IsFailure(event):
		return false
	}
	return true
}

// IsFailure reports whether the event records a failure.
func IsFailure(event Event) bool {
	switch {
	case event.Error != nil:
		return true
	case event.Probe != nil:
		return !event.Probe.Success
	case event.Initcall != nil:
		return event.Initcall.Code < 0
	case event.Remove != nil:
		return event.Remove.Err != ""
	}
	return false
}

// Reader streams events from a trace file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens a trace file for reading all events.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a trace file, yielding only events that match
// filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next matching event, or io.EOF at the end of the file.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.Match(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
