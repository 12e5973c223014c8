package log

import (
	"testing"
	"time"
)

func TestEncodeDecodeProbeEvent(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	in := Event{
		Timestamp: ts,
		BootID:    "boot-1",
		Category:  CategoryProbe,
		Bus:       "platform",
		Device:    "i2c@1000",
		Driver:    "i2c_designware",
		Probe: &ProbeEvent{
			Entry:    1,
			Success:  false,
			Err:      "errno -19",
			Duration: 1500 * time.Microsecond,
		},
	}

	data, err := EncodeEvent(in)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	out, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}

	if !out.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", out.Timestamp, ts)
	}
	if out.Device != in.Device || out.Driver != in.Driver || out.Bus != in.Bus {
		t.Errorf("identifiers = %q/%q/%q, want %q/%q/%q",
			out.Bus, out.Device, out.Driver, in.Bus, in.Device, in.Driver)
	}
	if out.Probe == nil {
		t.Fatal("Probe payload lost")
	}
	if *out.Probe != *in.Probe {
		t.Errorf("Probe = %+v, want %+v", *out.Probe, *in.Probe)
	}
	if out.Initcall != nil || out.Error != nil {
		t.Error("unexpected payloads after decode")
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{CategoryRegistration, "REGISTRATION"},
		{CategoryProbe, "PROBE"},
		{CategoryRemove, "REMOVE"},
		{CategoryInitcall, "INITCALL"},
		{CategoryIRQ, "IRQ"},
		{CategoryBoot, "BOOT"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("INITCALL")
	if !ok || c != CategoryInitcall {
		t.Errorf("ParseCategory(INITCALL) = %v, %v", c, ok)
	}
	if _, ok := ParseCategory("initcall"); ok {
		t.Error("ParseCategory should be case-sensitive")
	}
}

func TestIsFailure(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  bool
	}{
		{"probe ok", Event{Probe: &ProbeEvent{Success: true}}, false},
		{"probe failed", Event{Probe: &ProbeEvent{Err: "x"}}, true},
		{"initcall zero", Event{Initcall: &InitcallEvent{Code: 0}}, false},
		{"initcall positive", Event{Initcall: &InitcallEvent{Code: 3}}, false},
		{"initcall negative", Event{Initcall: &InitcallEvent{Code: -22}}, true},
		{"remove err", Event{Remove: &RemoveEvent{Err: "busy"}}, true},
		{"error", Event{Error: &ErrorEventData{Message: "x"}}, true},
		{"registration", Event{Registration: &RegistrationEvent{}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFailure(tt.event); got != tt.want {
				t.Errorf("IsFailure() = %v, want %v", got, tt.want)
			}
		})
	}
}
