package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/orbit"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/sim"
)

func newSim(t *testing.T) *sim.Simulation {
	t.Helper()
	sys := orbit.NewSystem()
	if _, err := sys.AddPlanet("sun", 0, 1, 0, 695500, 0); err != nil {
		t.Fatal(err)
	}
	earth, err := sys.AddPlanet("earth", 149600000, 365, 1, 6371, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sys.AddMoon(earth, "moon", 30000000, 27.3, 27.3, 1738, 0); err != nil {
		t.Fatal(err)
	}
	cam, err := camera.New(camera.Options{Position: dynamo.Vec3{X: -1.2}})
	if err != nil {
		t.Fatal(err)
	}
	return sim.New(sys, cam, sim.Config{StartTime: 0, TimeSpeed: 1, ShowOrbits: true})
}

func TestLiveRendererDrawsBodies(t *testing.T) {
	s := newSim(t)
	var out bytes.Buffer
	r := NewLiveRenderer(&out, s.System, scene.Scales{Distance: 1e-8, Size: 5e-6}, 2, 0)
	r.SetClear(false)
	s.AddObserver(r)
	s.Step(0, nil)

	text := out.String()
	if strings.Contains(text, clearScreen) {
		t.Error("expected no clear sequence")
	}
	for _, want := range []string{"day=1.00", "O", "E", "M", "+", "frame=1"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}
	// Sun sits at the centre of the map; rows are prefixed by two spaces.
	lines := strings.Split(text, "\n")
	row := []rune(lines[2+height/2])
	if row[2+width/2] != 'O' {
		t.Errorf("expected sun at centre, got %q", string(row))
	}
}

func TestLiveRendererHidesOrbits(t *testing.T) {
	s := newSim(t)
	s.ShowOrbits = false
	var out bytes.Buffer
	r := NewLiveRenderer(&out, s.System, scene.Scales{Distance: 1e-8, Size: 5e-6}, 2, 0)
	r.SetClear(false)
	r.OnFrame(s.Snapshot())
	lines := strings.Split(out.String(), "\n")
	for _, row := range lines[2 : 2+height] {
		if strings.Contains(row, ".") {
			t.Errorf("expected no orbit dots, got %q", row)
		}
	}
}

func TestLiveRendererThrottles(t *testing.T) {
	s := newSim(t)
	var out bytes.Buffer
	r := NewLiveRenderer(&out, s.System, scene.Scales{Distance: 1e-8, Size: 5e-6}, 2, 1)
	r.OnFrame(s.Snapshot())
	first := out.Len()
	r.OnFrame(s.Snapshot())
	if out.Len() != first {
		t.Error("expected second frame within the interval to be dropped")
	}
}

func TestMarker(t *testing.T) {
	tests := []struct {
		name string
		want rune
	}{
		{"sun", 'O'},
		{"earth", 'E'},
		{"mars", 'M'},
		{"", '*'},
	}
	for _, tt := range tests {
		if got := marker(tt.name); got != tt.want {
			t.Errorf("marker(%q): expected %q, got %q", tt.name, tt.want, got)
		}
	}
}
