package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/control"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/orbit"
)

func newTestSim(t *testing.T, cfg Config) *Simulation {
	t.Helper()
	sys := orbit.NewSystem()
	if _, err := sys.AddPlanet("sun", 0, 0, 10, 5, orbit.NoTexture); err != nil {
		t.Fatalf("add sun: %v", err)
	}
	if _, err := sys.AddPlanet("planet", 100, 4, 1, 1, orbit.NoTexture); err != nil {
		t.Fatalf("add planet: %v", err)
	}
	cam, err := camera.New(camera.Options{MoveSpeed: 0.5})
	if err != nil {
		t.Fatalf("new camera: %v", err)
	}
	return New(sys, cam, cfg)
}

func TestStepAdvancesTime(t *testing.T) {
	s := newTestSim(t, Config{StartTime: 0, TimeSpeed: 1})

	f := s.Step(control.None, nil)
	if f.Time != 1 {
		t.Errorf("expected time 1, got %v", f.Time)
	}
	if f.Number != 1 || s.Frames() != 1 {
		t.Errorf("expected frame 1, got %d/%d", f.Number, s.Frames())
	}

	// a quarter of the planet's period puts it on -Z
	planet := f.Poses[1].Position
	if !planet.ApproxEqual(dynamo.Vec3{Z: -100}, 1e-9) {
		t.Errorf("expected planet at (0,0,-100), got %v", planet)
	}
}

func TestStepPositionsMatchTime(t *testing.T) {
	s := newTestSim(t, DefaultConfig())
	f := s.Advance(37)

	want := orbit.NewSystem()
	want.AddPlanet("sun", 0, 0, 10, 5, orbit.NoTexture)
	want.AddPlanet("planet", 100, 4, 1, 1, orbit.NoTexture)
	want.CalculatePositions(f.Time)

	for i, p := range want.Poses() {
		if !f.Poses[i].Position.ApproxEqual(p.Position, 1e-9) {
			t.Errorf("body %d: expected %v, got %v", i, p.Position, f.Poses[i].Position)
		}
	}
	if math.Abs(f.Time-(2.552+37*0.1)) > 1e-9 {
		t.Errorf("unexpected time %v", f.Time)
	}
}

func TestStepCommands(t *testing.T) {
	tests := []struct {
		name  string
		cmds  []control.Command
		check func(*Simulation) bool
	}{
		{"time faster", []control.Command{control.TimeFaster}, func(s *Simulation) bool { return s.TimeSpeed == 2 }},
		{"time slower", []control.Command{control.TimeSlower}, func(s *Simulation) bool { return s.TimeSpeed == 0.5 }},
		{"toggle orbits", []control.Command{control.ToggleOrbits}, func(s *Simulation) bool { return !s.ShowOrbits }},
		{"toggle twice", []control.Command{control.ToggleOrbits, control.ToggleOrbits}, func(s *Simulation) bool { return s.ShowOrbits }},
		{"camera faster", []control.Command{control.CameraFaster}, func(s *Simulation) bool { return s.Camera.MoveSpeed() == 1 }},
		{"camera slower", []control.Command{control.CameraSlower}, func(s *Simulation) bool { return s.Camera.MoveSpeed() == 0.25 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, Config{TimeSpeed: 1, ShowOrbits: true})
			s.Step(control.None, tt.cmds)
			if !tt.check(s) {
				t.Errorf("unexpected state: speed=%v orbits=%v cam=%v", s.TimeSpeed, s.ShowOrbits, s.Camera.MoveSpeed())
			}
		})
	}
}

func TestTimeSpeedChangeAppliesNextFrame(t *testing.T) {
	s := newTestSim(t, Config{TimeSpeed: 1})

	f := s.Step(control.None, []control.Command{control.TimeFaster})
	if f.Time != 1 {
		t.Errorf("current frame uses the old speed, expected 1, got %v", f.Time)
	}
	if f = s.Step(control.None, nil); f.Time != 3 {
		t.Errorf("expected 3, got %v", f.Time)
	}
}

func TestNegativeTimeSpeedRunsBackwards(t *testing.T) {
	s := newTestSim(t, Config{StartTime: 10, TimeSpeed: -1})
	s.Advance(4)
	if s.Time != 6 {
		t.Errorf("expected 6, got %v", s.Time)
	}
}

func TestStepAppliesIntentAfterPositions(t *testing.T) {
	s := newTestSim(t, Config{TimeSpeed: 1})
	f := s.Step(control.Forward, nil)

	if !f.Camera.ApproxEqual(dynamo.Vec3{Z: -0.5}, 1e-12) {
		t.Errorf("expected camera moved, got %v", f.Camera)
	}
	if got := f.Translation.MulPoint(f.Camera); !got.ApproxEqual(dynamo.Zero, 1e-12) {
		t.Errorf("translation should reflect the moved camera, got %v", got)
	}
	if f.Intent != control.Forward {
		t.Errorf("expected intent recorded, got %v", f.Intent)
	}
}

func TestObservers(t *testing.T) {
	s := newTestSim(t, Config{TimeSpeed: 1})

	var seen []uint64
	s.AddObserver(ObserverFunc(func(f Frame) { seen = append(seen, f.Number) }))
	s.Advance(3)

	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("expected frames 1..3, got %v", seen)
	}
}

func TestRunStopsWhenSinkDeclines(t *testing.T) {
	s := newTestSim(t, Config{TimeSpeed: 1})
	var latch control.Latch
	latch.Press(control.Right)

	n := 0
	err := Run(context.Background(), s, &latch, 1000, func(f Frame) bool {
		n++
		return n < 5
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 frames, got %d", n)
	}
	if !s.Camera.Position().ApproxEqual(dynamo.Vec3{X: 2.5}, 1e-12) {
		t.Errorf("expected held intent applied every frame, got %v", s.Camera.Position())
	}
}

func TestRunCancel(t *testing.T) {
	s := newTestSim(t, Config{TimeSpeed: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Run(ctx, s, &control.Latch{}, 100, func(Frame) bool { return true })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestRunInvalidFPS(t *testing.T) {
	s := newTestSim(t, Config{TimeSpeed: 1})
	if err := Run(context.Background(), s, &control.Latch{}, 0, func(Frame) bool { return true }); err == nil {
		t.Error("expected error for zero fps")
	}
}
