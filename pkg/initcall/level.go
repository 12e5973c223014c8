package initcall

import "fmt"

// Level is an initcall priority. Lower levels run first.
type Level uint8

// Initcall levels.
const (
	LevelCore Level = iota + 1
	LevelPostcore
	LevelArch
	LevelSubsys
	LevelFS
	LevelDevice
	LevelLate
)

// NumLevels is the number of initcall levels.
const NumLevels = 7

var levelNames = [...]string{
	LevelCore:     "core",
	LevelPostcore: "postcore",
	LevelArch:     "arch",
	LevelSubsys:   "subsys",
	LevelFS:       "fs",
	LevelDevice:   "device",
	LevelLate:     "late",
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelCore && l <= LevelLate
}

// String returns the level name.
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", uint8(l))
	}
	return levelNames[l]
}

// ParseLevel returns the level with the given name.
func ParseLevel(name string) (Level, bool) {
	for l := LevelCore; l <= LevelLate; l++ {
		if levelNames[l] == name {
			return l, true
		}
	}
	return 0, false
}

// Levels returns every level in execution order.
func Levels() []Level {
	out := make([]Level, 0, NumLevels)
	for l := LevelCore; l <= LevelLate; l++ {
		out = append(out, l)
	}
	return out
}
