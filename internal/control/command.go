package control

import "fmt"

// Command is a one-shot action fired on key press.
type Command int

const (
	TimeFaster Command = iota + 1
	TimeSlower
	ToggleOrbits
	CameraFaster
	CameraSlower
)

func (c Command) String() string {
	switch c {
	case TimeFaster:
		return "time-faster"
	case TimeSlower:
		return "time-slower"
	case ToggleOrbits:
		return "toggle-orbits"
	case CameraFaster:
		return "camera-faster"
	case CameraSlower:
		return "camera-slower"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// ParseCommand is the inverse of String.
func ParseCommand(s string) (Command, bool) {
	for c := TimeFaster; c <= CameraSlower; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Binding maps a key to either a held intent or a one-shot command.
type Binding struct {
	Key     string
	Intent  Intent
	Command Command
}

// DefaultBindings is the keyboard layout shared by the window and terminal
// front ends.
var DefaultBindings = []Binding{
	{Key: "w", Intent: Forward},
	{Key: "s", Intent: Backward},
	{Key: "a", Intent: Left},
	{Key: "d", Intent: Right},
	{Key: "q", Intent: YawLeft},
	{Key: "e", Intent: YawRight},
	{Key: "i", Intent: PitchDown},
	{Key: "k", Intent: PitchUp},
	{Key: "j", Intent: RollLeft},
	{Key: "l", Intent: RollRight},
	{Key: "=", Command: TimeFaster},
	{Key: "-", Command: TimeSlower},
	{Key: "o", Command: ToggleOrbits},
	{Key: ".", Command: CameraFaster},
	{Key: ",", Command: CameraSlower},
}

// Lookup finds the binding for key.
func Lookup(key string) (Binding, bool) {
	for _, b := range DefaultBindings {
		if b.Key == key {
			return b, true
		}
	}
	return Binding{}, false
}
