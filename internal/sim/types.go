package sim

import (
	"github.com/san-kum/solarsim/internal/control"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/orbit"
)

// Frame is everything a renderer needs for one tick. Poses is owned by the
// frame and may be retained.
type Frame struct {
	Number      uint64
	Time        float64
	TimeSpeed   float64
	Poses       []orbit.Pose
	Orientation dynamo.Transform
	Translation dynamo.Transform
	Camera      dynamo.Vec3
	CameraSpeed float64
	ShowOrbits  bool
	Intent      control.Intent
}

// View is the full world-to-camera transform of the frame.
func (f Frame) View() dynamo.Transform {
	return f.Orientation.Mul(f.Translation)
}

// Source supplies the input for the next step. *control.Latch satisfies it.
type Source interface {
	Snapshot() (control.Intent, []control.Command)
}

// Observer is notified after every step.
type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Config struct {
	StartTime  float64
	TimeSpeed  float64
	ShowOrbits bool
}

func DefaultConfig() Config {
	return Config{
		StartTime:  2.552,
		TimeSpeed:  0.1,
		ShowOrbits: true,
	}
}
