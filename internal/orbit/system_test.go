package orbit

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/solarsim/internal/dynamo"
)

func newTestSystem(t *testing.T) (*System, BodyID, BodyID, BodyID) {
	t.Helper()
	sys := NewSystem()
	sun, err := sys.AddPlanet("sun", 0, 0, 25, 695500, NoTexture)
	if err != nil {
		t.Fatalf("add sun: %v", err)
	}
	earth, err := sys.AddPlanet("earth", 149600000, 365, 1, 6371, 3)
	if err != nil {
		t.Fatalf("add earth: %v", err)
	}
	moon, err := sys.AddMoon(earth, "moon", 7000000, 27.3, 27.3, 1738, 7)
	if err != nil {
		t.Fatalf("add moon: %v", err)
	}
	return sys, sun, earth, moon
}

func mustBody(t *testing.T, sys *System, id BodyID) Body {
	t.Helper()
	b, err := sys.Body(id)
	if err != nil {
		t.Fatalf("body %d: %v", id, err)
	}
	return b
}

func TestSunStaysAtOrigin(t *testing.T) {
	sys, sun, _, _ := newTestSystem(t)
	for _, tm := range []float64{0, 1, 2.552, 100, -50, 1e6} {
		sys.CalculatePositions(tm)
		b := mustBody(t, sys, sun)
		if b.Position != dynamo.Zero {
			t.Errorf("t=%v: sun at %v, expected origin", tm, b.Position)
		}
		if b.OrbitAngle != 0 {
			t.Errorf("t=%v: sun orbit angle %v, expected 0", tm, b.OrbitAngle)
		}
	}
}

func TestEarthClosesOrbitAfterOnePeriod(t *testing.T) {
	sys, _, earth, _ := newTestSystem(t)

	sys.CalculatePositions(0)
	start := mustBody(t, sys, earth)

	sys.CalculatePositions(365)
	end := mustBody(t, sys, earth)

	if end.OrbitAngle != 0 {
		t.Errorf("expected orbit angle 0 at t=365, got %v", end.OrbitAngle)
	}
	if !end.Position.ApproxEqual(start.Position, 1e-6) {
		t.Errorf("expected %v, got %v", start.Position, end.Position)
	}
	if !start.Position.ApproxEqual(dynamo.Vec3{X: 149600000}, 1e-6) {
		t.Errorf("orbit should start on +X, got %v", start.Position)
	}
}

func TestQuarterOrbitDirection(t *testing.T) {
	sys, _, earth, _ := newTestSystem(t)
	sys.CalculatePositions(365.0 / 4)
	b := mustBody(t, sys, earth)

	if math.Abs(b.OrbitAngle-90) > 1e-9 {
		t.Errorf("expected 90 degrees, got %v", b.OrbitAngle)
	}
	want := dynamo.Vec3{Z: -149600000}
	if !b.Position.ApproxEqual(want, 1e-3) {
		t.Errorf("expected %v, got %v", want, b.Position)
	}
	if b.Position.Y != 0 {
		t.Errorf("orbits must stay in the XZ plane, got y=%v", b.Position.Y)
	}
}

func TestPeriodicity(t *testing.T) {
	sys, err := NewSolarSystem(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, tm := range []float64{0, 2.552, 17.25, 1234.5, -400} {
		for i, rec := range SolarSystem {
			sys.CalculatePositions(tm)
			before := mustBody(t, sys, BodyID(i))
			sys.CalculatePositions(tm + rec.OrbitalPeriod)
			after := mustBody(t, sys, BodyID(i))

			if rec.Parent != "" {
				// moons close their orbit relative to the parent
				parent, _ := sys.Lookup(rec.Parent)
				sys.CalculatePositions(tm)
				p0 := mustBody(t, sys, parent).Position
				sys.CalculatePositions(tm + rec.OrbitalPeriod)
				p1 := mustBody(t, sys, parent).Position
				before.Position = before.Position.Sub(p0)
				after.Position = after.Position.Sub(p1)
			}

			tol := 1e-6 * math.Max(rec.Distance, 1)
			if !after.Position.ApproxEqual(before.Position, tol) {
				t.Errorf("%s t=%v: %v != %v", rec.Name, tm, after.Position, before.Position)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	sys, _, _, moon := newTestSystem(t)

	sys.CalculatePositions(42.5)
	first := mustBody(t, sys, moon)

	for _, tm := range []float64{1, 9999, -3, 0.5} {
		sys.CalculatePositions(tm)
	}
	sys.CalculatePositions(42.5)
	second := mustBody(t, sys, moon)

	if first.Position != second.Position || first.SpinAngle != second.SpinAngle || first.OrbitAngle != second.OrbitAngle {
		t.Errorf("solve is not a pure function of time: %+v vs %+v", first, second)
	}
}

func TestMoonAnchoredToParent(t *testing.T) {
	sys, _, earth, moon := newTestSystem(t)

	for _, tm := range []float64{0, 3.3, 27.3, 100, 365, -12.5} {
		sys.CalculatePositions(tm)
		e := mustBody(t, sys, earth)
		m := mustBody(t, sys, moon)
		dist := m.Position.Sub(e.Position).Length()
		if math.Abs(dist-7000000) > 1e-6*7000000 {
			t.Errorf("t=%v: moon-earth distance %v, expected 7000000", tm, dist)
		}
	}
}

func TestNegativeTimeStaysInRange(t *testing.T) {
	sys, _, earth, _ := newTestSystem(t)
	sys.CalculatePositions(-365.0 / 4)
	b := mustBody(t, sys, earth)

	if math.Abs(b.OrbitAngle-270) > 1e-9 {
		t.Errorf("expected 270, got %v", b.OrbitAngle)
	}
	if b.SpinAngle < 0 || b.SpinAngle >= 360 {
		t.Errorf("spin angle out of range: %v", b.SpinAngle)
	}
}

func TestRetrogradeSpinMirrors(t *testing.T) {
	sys := NewSystem()
	pro, _ := sys.AddPlanet("pro", 1000, 100, 10, 1, NoTexture)
	retro, _ := sys.AddPlanet("retro", 1000, 100, -10, 1, NoTexture)

	for _, tm := range []float64{1, 2.5, 7, 13} {
		sys.CalculatePositions(tm)
		p := mustBody(t, sys, pro).SpinAngle
		r := mustBody(t, sys, retro).SpinAngle
		d := dynamo.NormalizeDegrees(p + r)
		if d > 180 {
			d = 360 - d
		}
		if d > 1e-9 {
			t.Errorf("t=%v: %v and %v are not mirrored", tm, p, r)
		}
	}
}

func TestZeroPeriodMeansNoMotion(t *testing.T) {
	sys := NewSystem()
	id, err := sys.AddPlanet("parked", 500, 0, 0, 1, NoTexture)
	if err != nil {
		t.Fatalf("zero periods should be accepted: %v", err)
	}

	for _, tm := range []float64{0, 10, -10} {
		sys.CalculatePositions(tm)
		b := mustBody(t, sys, id)
		if b.OrbitAngle != 0 || b.SpinAngle != 0 {
			t.Errorf("t=%v: expected no motion, got orbit=%v spin=%v", tm, b.OrbitAngle, b.SpinAngle)
		}
		if b.Position != (dynamo.Vec3{X: 500}) {
			t.Errorf("t=%v: expected parked at +X, got %v", tm, b.Position)
		}
	}
}

func TestAddMoonRejectsUnknownParent(t *testing.T) {
	sys, _, _, _ := newTestSystem(t)

	for _, parent := range []BodyID{-1, 3, 100} {
		_, err := sys.AddMoon(parent, "orphan", 10, 1, 1, 1, NoTexture)
		if !errors.Is(err, dynamo.ErrUnknownParent) {
			t.Errorf("parent %d: expected ErrUnknownParent, got %v", parent, err)
		}
	}
	if sys.Len() != 3 {
		t.Errorf("rejected registration must not grow the registry, len=%d", sys.Len())
	}
}

func TestAddRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name                     string
		distance, orbit, spin, r float64
	}{
		{"nan distance", math.NaN(), 1, 1, 1},
		{"inf period", 1, math.Inf(1), 1, 1},
		{"nan spin", 1, 1, math.NaN(), 1},
		{"negative distance", -1, 1, 1, 1},
		{"negative radius", 1, 1, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := NewSystem()
			_, err := sys.AddPlanet(tt.name, tt.distance, tt.orbit, tt.spin, tt.r, NoTexture)
			if !errors.Is(err, dynamo.ErrInvalidBody) {
				t.Errorf("expected ErrInvalidBody, got %v", err)
			}
		})
	}
}

func TestMissingTextureStillSolves(t *testing.T) {
	sys := NewSystem()
	id, _ := sys.AddPlanet("bare", 100, 10, 1, 1, NoTexture)
	sys.CalculatePositions(2.5)

	poses := sys.Poses()
	if len(poses) != 1 || poses[0].ID != id {
		t.Fatalf("unexpected poses: %+v", poses)
	}
	if poses[0].Texture != NoTexture {
		t.Errorf("expected no texture, got %v", poses[0].Texture)
	}
	if poses[0].Position == (dynamo.Vec3{X: 100}) {
		t.Error("untextured body was not solved")
	}
}

type recordingRenderer struct {
	bodies []Pose
	orbits [][]dynamo.Vec3
	center []dynamo.Vec3
}

func (r *recordingRenderer) DrawBody(p Pose) { r.bodies = append(r.bodies, p) }
func (r *recordingRenderer) DrawOrbit(c dynamo.Vec3, ring []dynamo.Vec3) {
	r.center = append(r.center, c)
	r.orbits = append(r.orbits, ring)
}

func TestRender(t *testing.T) {
	sys, _, earth, moon := newTestSystem(t)
	sys.CalculatePositions(50)

	r := &recordingRenderer{}
	sys.Render(r)
	if len(r.bodies) != 3 {
		t.Fatalf("expected 3 draw calls, got %d", len(r.bodies))
	}
	for i, p := range r.bodies {
		if p.ID != BodyID(i) {
			t.Errorf("draw order: position %d has id %d", i, p.ID)
		}
	}
	if r.bodies[earth].Texture != 3 || r.bodies[moon].Texture != 7 {
		t.Error("texture refs not passed through unchanged")
	}
}

func TestRenderOrbits(t *testing.T) {
	sys, _, earth, _ := newTestSystem(t)
	sys.CalculatePositions(50)

	r := &recordingRenderer{}
	sys.RenderOrbits(r, 64)

	if len(r.orbits) != 2 {
		t.Fatalf("expected rings for earth and moon only, got %d", len(r.orbits))
	}
	if r.center[0] != dynamo.Zero {
		t.Errorf("earth ring should be centred on the origin, got %v", r.center[0])
	}
	e := mustBody(t, sys, earth)
	if r.center[1] != e.Position {
		t.Errorf("moon ring should be centred on earth, got %v", r.center[1])
	}
	for _, p := range r.orbits[1] {
		if d := p.Sub(e.Position).Length(); math.Abs(d-7000000) > 1e-3 {
			t.Errorf("ring point at distance %v, expected 7000000", d)
		}
	}
	if len(r.orbits[0]) != 64 {
		t.Errorf("expected 64 ring points, got %d", len(r.orbits[0]))
	}
}

func TestOrbitRingIsStatic(t *testing.T) {
	sys, _, earth, _ := newTestSystem(t)
	sys.CalculatePositions(10)
	a, _ := sys.OrbitRing(earth, 32)
	sys.CalculatePositions(200)
	b, _ := sys.OrbitRing(earth, 32)

	for i := range a {
		if !a[i].ApproxEqual(b[i], 1e-6) {
			t.Fatalf("planet ring moved with time at %d: %v vs %v", i, a[i], b[i])
		}
	}

	if _, err := sys.OrbitRing(99, 32); !errors.Is(err, dynamo.ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}
