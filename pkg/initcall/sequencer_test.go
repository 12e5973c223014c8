package initcall

import (
	"errors"
	"testing"

	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/log"
)

type recorder struct {
	ran []string
}

func (r *recorder) call(name string, code int) Func {
	return func() int {
		r.ran = append(r.ran, name)
		return code
	}
}

func TestSequencerAbortsOnNegativeStatus(t *testing.T) {
	rec := &recorder{}
	tbl := NewTable()
	mustReg(t, tbl, LevelCore, "core.a", rec.call("core.a", 0))
	mustReg(t, tbl, LevelCore, "core.b", rec.call("core.b", 0))
	mustReg(t, tbl, LevelPostcore, "postcore.a", rec.call("postcore.a", 0))
	mustReg(t, tbl, LevelPostcore, "postcore.b", rec.call("postcore.b", -1))
	mustReg(t, tbl, LevelArch, "arch.a", rec.call("arch.a", 0))

	s := NewSequencer(tbl, Options{})
	err := s.Run()

	want := []string{"core.a", "core.b", "postcore.a", "postcore.b"}
	if len(rec.ran) != len(want) {
		t.Fatalf("ran = %v, want %v", rec.ran, want)
	}
	for i := range want {
		if rec.ran[i] != want[i] {
			t.Errorf("ran[%d] = %q, want %q", i, rec.ran[i], want[i])
		}
	}

	if !errors.Is(err, errcode.ErrFatal) {
		t.Fatalf("Run() error = %v, want ErrFatal", err)
	}
	var fe *FatalError
	if !errors.As(err, &fe) {
		t.Fatalf("Run() error type = %T", err)
	}
	if fe.Level != LevelPostcore || fe.Offset != 1 || fe.Code != -1 || fe.Name != "postcore.b" {
		t.Errorf("FatalError = %+v", *fe)
	}

	st := s.Status()
	if st.State != StateAborted || st.Level != LevelPostcore || st.Offset != 1 || st.Code != -1 {
		t.Errorf("Status() = %+v", st)
	}
}

func TestSequencerRunsLevelsInOrder(t *testing.T) {
	rec := &recorder{}
	tbl := NewTable()
	// Registration order across levels must not matter.
	mustReg(t, tbl, LevelLate, "late", rec.call("late", 0))
	mustReg(t, tbl, LevelDevice, "device", rec.call("device", 0))
	mustReg(t, tbl, LevelCore, "core", rec.call("core", 0))
	mustReg(t, tbl, LevelSubsys, "subsys.1", rec.call("subsys.1", 5))
	mustReg(t, tbl, LevelSubsys, "subsys.2", rec.call("subsys.2", 0))

	s := NewSequencer(tbl, Options{})
	if err := s.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"core", "subsys.1", "subsys.2", "device", "late"}
	for i := range want {
		if rec.ran[i] != want[i] {
			t.Errorf("ran = %v, want %v", rec.ran, want)
			break
		}
	}
	if s.Status().State != StateCompleted {
		t.Errorf("State = %v, want COMPLETED", s.Status().State)
	}
	if res := s.Results(); len(res) != 5 || res[1].Code != 5 {
		t.Errorf("Results() = %+v", res)
	}
}

func TestSequencerRunsOnce(t *testing.T) {
	s := NewSequencer(NewTable(), Options{})
	if err := s.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := s.Run(); !errors.Is(err, errcode.ErrBusy) {
		t.Errorf("second Run() error = %v, want ErrBusy", err)
	}
}

func TestTableSealedAfterRun(t *testing.T) {
	tbl := NewTable()
	if err := NewSequencer(tbl, Options{}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !tbl.Sealed() {
		t.Error("table not sealed")
	}
	err := tbl.Register(LevelLate, "late", func() int { return 0 })
	if !errors.Is(err, errcode.ErrBusy) {
		t.Errorf("Register() after run error = %v, want ErrBusy", err)
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	tbl := NewTable()
	tests := []struct {
		name  string
		level Level
		cname string
		fn    Func
	}{
		{"level zero", 0, "x", func() int { return 0 }},
		{"level eight", 8, "x", func() int { return 0 }},
		{"empty name", LevelCore, "", func() int { return 0 }},
		{"nil fn", LevelCore, "x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tbl.Register(tt.level, tt.cname, tt.fn); !errors.Is(err, errcode.ErrInvalidArgument) {
				t.Errorf("Register() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
	if n := len(tbl.Calls()); n != 0 {
		t.Errorf("len(Calls()) = %d, want 0", n)
	}
}

func TestFatalErrorUnwrapsErrno(t *testing.T) {
	err := error(&FatalError{Level: LevelSubsys, Name: "i2c", Code: -errcode.ENODEV})
	if !errors.Is(err, errcode.ErrNoDevice) {
		t.Errorf("errors.Is(ErrNoDevice) = false for %v", err)
	}
	if got, want := err.Error(), "initcall i2c (subsys+0) returned -19"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSequencerTrace(t *testing.T) {
	mem := &log.MemoryLogger{}
	tbl := NewTable()
	mustReg(t, tbl, LevelArch, "arch", func() int { return 0 })

	if err := NewSequencer(tbl, Options{Trace: mem, TreeDigest: "abc"}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	events := mem.Events()
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	if events[0].Boot == nil || events[0].Boot.NewState != "RUNNING" || events[0].Boot.TreeDigest != "abc" {
		t.Errorf("events[0] = %+v", events[0].Boot)
	}
	if ic := events[1].Initcall; ic == nil || ic.LevelName != "arch" || ic.Name != "arch" {
		t.Errorf("events[1] = %+v", events[1].Initcall)
	}
	if events[2].Boot == nil || events[2].Boot.NewState != "COMPLETED" {
		t.Errorf("events[2] = %+v", events[2].Boot)
	}
}

func TestLevelNames(t *testing.T) {
	names := []string{"core", "postcore", "arch", "subsys", "fs", "device", "late"}
	for i, l := range Levels() {
		if l.String() != names[i] {
			t.Errorf("Level(%d).String() = %q, want %q", l, l.String(), names[i])
		}
		if p, ok := ParseLevel(names[i]); !ok || p != l {
			t.Errorf("ParseLevel(%q) = %v, %v", names[i], p, ok)
		}
	}
	if Level(9).String() != "level(9)" {
		t.Errorf("invalid level String() = %q", Level(9).String())
	}
}

func mustReg(t *testing.T, tbl *Table, l Level, name string, fn Func) {
	t.Helper()
	if err := tbl.Register(l, name, fn); err != nil {
		t.Fatalf("Register(%s) error = %v", name, err)
	}
}

func TestBootTablePanicsOnFatal(t *testing.T) {
	tbl := NewTable()
	mustReg(t, tbl, LevelFS, "rootfs", func() int { return -errcode.ENOENT })

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, errcode.ErrFatal) {
			t.Errorf("recovered %v, want fatal error", r)
		}
	}()
	BootTable(tbl, Options{})
	t.Error("BootTable returned after fatal initcall")
}
