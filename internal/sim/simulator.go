package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/time/rate"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/control"
	"github.com/san-kum/solarsim/internal/orbit"
)

// Simulation owns all mutable state of a running visualization. It is not
// safe for concurrent use; one goroutine drives Step.
type Simulation struct {
	System     *orbit.System
	Camera     *camera.Camera
	Time       float64
	TimeSpeed  float64
	ShowOrbits bool

	frames    uint64
	observers []Observer
}

func New(sys *orbit.System, cam *camera.Camera, cfg Config) *Simulation {
	s := &Simulation{
		System:     sys,
		Camera:     cam,
		Time:       cfg.StartTime,
		TimeSpeed:  cfg.TimeSpeed,
		ShowOrbits: cfg.ShowOrbits,
	}
	sys.CalculatePositions(s.Time)
	return s
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Frames is the number of completed steps.
func (s *Simulation) Frames() uint64 { return s.frames }

// Step advances one tick: time moves by TimeSpeed, body positions are
// recomputed, commands and intents are applied to the camera and the
// transforms for rendering are taken last.
func (s *Simulation) Step(intent control.Intent, cmds []control.Command) Frame {
	s.Time += s.TimeSpeed
	s.System.CalculatePositions(s.Time)

	for _, c := range cmds {
		s.exec(c)
	}
	control.Apply(s.Camera, intent)

	s.frames++
	f := s.Snapshot()
	f.Intent = intent
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	return f
}

// Snapshot captures the current state without advancing it.
func (s *Simulation) Snapshot() Frame {
	return Frame{
		Number:      s.frames,
		Time:        s.Time,
		TimeSpeed:   s.TimeSpeed,
		Poses:       s.System.Poses(),
		Orientation: s.Camera.TransformOrientation(),
		Translation: s.Camera.TransformTranslation(),
		Camera:      s.Camera.Position(),
		CameraSpeed: s.Camera.MoveSpeed(),
		ShowOrbits:  s.ShowOrbits,
	}
}

func (s *Simulation) exec(c control.Command) {
	switch c {
	case control.TimeFaster:
		s.TimeSpeed *= 2
	case control.TimeSlower:
		s.TimeSpeed /= 2
	case control.ToggleOrbits:
		s.ShowOrbits = !s.ShowOrbits
	case control.CameraFaster:
		s.Camera.SpeedUp()
	case control.CameraSlower:
		s.Camera.SlowDown()
	default:
		slog.Debug("ignoring unknown command", "component", "sim", "command", c)
	}
}

// Run drives s at fps frames per second until ctx is cancelled or sink
// returns false. Input is taken from src once per frame.
func Run(ctx context.Context, s *Simulation, src Source, fps float64, sink func(Frame) bool) error {
	if fps <= 0 || math.IsInf(fps, 0) || math.IsNaN(fps) {
		return fmt.Errorf("fps must be positive, got %f", fps)
	}
	limiter := rate.NewLimiter(rate.Limit(fps), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			// Wait fails early when the deadline falls before the next slot.
			<-ctx.Done()
			return ctx.Err()
		}

		intent, cmds := src.Snapshot()
		if !sink(s.Step(intent, cmds)) {
			return nil
		}
	}
}

// Advance runs n steps with no input as fast as possible. Used for headless
// exports and tests.
func (s *Simulation) Advance(n int) Frame {
	f := s.Snapshot()
	for i := 0; i < n; i++ {
		f = s.Step(control.None, nil)
	}
	return f
}
