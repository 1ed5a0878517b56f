package orbit

import (
	"math"

	"github.com/san-kum/solarsim/internal/dynamo"
)

// BodyID is a stable index into the registry.
type BodyID int

// TextureRef is an opaque handle issued by the texture collaborator. The
// registry never inspects or frees it.
type TextureRef uint32

const NoTexture TextureRef = 0

// NoParent marks top-level bodies.
const NoParent BodyID = -1

type Body struct {
	Name           string
	Distance       float64
	OrbitalPeriod  float64
	RotationPeriod float64
	Radius         float64
	Texture        TextureRef
	Parent         BodyID

	// Solved by CalculatePositions.
	Position   dynamo.Vec3
	OrbitAngle float64
	SpinAngle  float64
}

func (b Body) HasParent() bool { return b.Parent != NoParent }

// Pose is what a renderer needs to draw one body for one frame.
type Pose struct {
	ID        BodyID
	Name      string
	Position  dynamo.Vec3
	SpinAngle float64
	Radius    float64
	Texture   TextureRef
}

// Renderer consumes the solved scene. Implementations live outside the core.
type Renderer interface {
	DrawBody(p Pose)
	DrawOrbit(center dynamo.Vec3, ring []dynamo.Vec3)
}

type System struct {
	bodies []Body
	time   float64
}

func NewSystem() *System {
	return &System{bodies: make([]Body, 0, 16)}
}

// AddPlanet registers a body orbiting the origin. With distance 0 it is the
// fixed central body.
func (s *System) AddPlanet(name string, distance, orbitalPeriod, rotationPeriod, radius float64, tex TextureRef) (BodyID, error) {
	return s.add(Body{
		Name:           name,
		Distance:       distance,
		OrbitalPeriod:  orbitalPeriod,
		RotationPeriod: rotationPeriod,
		Radius:         radius,
		Texture:        tex,
		Parent:         NoParent,
	})
}

// AddMoon registers a body orbiting parent, which must already exist.
func (s *System) AddMoon(parent BodyID, name string, distance, orbitalPeriod, rotationPeriod, radius float64, tex TextureRef) (BodyID, error) {
	if parent < 0 || int(parent) >= len(s.bodies) {
		return 0, &dynamo.BodyError{ID: len(s.bodies), Name: name, Wrapped: dynamo.ErrUnknownParent}
	}
	return s.add(Body{
		Name:           name,
		Distance:       distance,
		OrbitalPeriod:  orbitalPeriod,
		RotationPeriod: rotationPeriod,
		Radius:         radius,
		Texture:        tex,
		Parent:         parent,
	})
}

func (s *System) add(b Body) (BodyID, error) {
	id := BodyID(len(s.bodies))
	if err := validate(b); err != nil {
		return 0, &dynamo.BodyError{ID: int(id), Name: b.Name, Wrapped: err}
	}
	if b.HasParent() {
		b.Position = s.bodies[b.Parent].Position
	}
	b.Position = b.Position.Add(orbitOffset(b.Distance, 0))
	s.bodies = append(s.bodies, b)
	return id, nil
}

func validate(b Body) error {
	for _, v := range []float64{b.Distance, b.OrbitalPeriod, b.RotationPeriod, b.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return dynamo.ErrInvalidBody
		}
	}
	if b.Distance < 0 || b.Radius < 0 {
		return dynamo.ErrInvalidBody
	}
	return nil
}

// CalculatePositions solves every body for simTime in registration order.
// The result depends only on simTime.
func (s *System) CalculatePositions(simTime float64) {
	s.time = simTime
	for i := range s.bodies {
		b := &s.bodies[i]
		b.OrbitAngle = periodicAngle(simTime, b.OrbitalPeriod)
		b.SpinAngle = periodicAngle(simTime, b.RotationPeriod)

		anchor := dynamo.Zero
		if b.HasParent() {
			anchor = s.bodies[b.Parent].Position
		}
		b.Position = anchor.Add(orbitOffset(b.Distance, b.OrbitAngle))
	}
}

// periodicAngle is (t/period)*360 wrapped into [0,360); a zero period means no motion.
func periodicAngle(t, period float64) float64 {
	if period == 0 {
		return 0
	}
	return dynamo.NormalizeDegrees(t / period * 360)
}

// orbitOffset rotates the +X reference axis about world up by deg.
func orbitOffset(distance, deg float64) dynamo.Vec3 {
	if distance == 0 {
		return dynamo.Zero
	}
	return dynamo.UnitX.Rotate(dynamo.UnitY, deg).Scale(distance)
}

// Time returns the simulation time of the last solve.
func (s *System) Time() float64 { return s.time }

func (s *System) Len() int { return len(s.bodies) }

func (s *System) Body(id BodyID) (Body, error) {
	if id < 0 || int(id) >= len(s.bodies) {
		return Body{}, dynamo.ErrUnknownBody
	}
	return s.bodies[id], nil
}

// Bodies returns a copy of the registry in registration order.
func (s *System) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

func (s *System) Lookup(name string) (BodyID, error) {
	for i, b := range s.bodies {
		if b.Name == name {
			return BodyID(i), nil
		}
	}
	return 0, dynamo.ErrUnknownBody
}

func (s *System) Poses() []Pose {
	poses := make([]Pose, len(s.bodies))
	for i, b := range s.bodies {
		poses[i] = Pose{
			ID:        BodyID(i),
			Name:      b.Name,
			Position:  b.Position,
			SpinAngle: b.SpinAngle,
			Radius:    b.Radius,
			Texture:   b.Texture,
		}
	}
	return poses
}

func (s *System) Render(r Renderer) {
	for _, p := range s.Poses() {
		r.DrawBody(p)
	}
}

// RenderOrbits emits one closed ring per orbiting body, centred on its
// parent's current position.
func (s *System) RenderOrbits(r Renderer, segments int) {
	for i, b := range s.bodies {
		if b.Distance == 0 {
			continue
		}
		ring, _ := s.OrbitRing(BodyID(i), segments)
		r.DrawOrbit(s.anchor(b), ring)
	}
}

// OrbitRing returns segments points evenly spaced on the body's orbit. The
// loop is closed: the last point connects back to the first.
func (s *System) OrbitRing(id BodyID, segments int) ([]dynamo.Vec3, error) {
	b, err := s.Body(id)
	if err != nil {
		return nil, err
	}
	if segments < 3 {
		segments = 3
	}
	center := s.anchor(b)
	ring := make([]dynamo.Vec3, segments)
	for i := range ring {
		deg := float64(i) * 360 / float64(segments)
		ring[i] = center.Add(orbitOffset(b.Distance, deg))
	}
	return ring, nil
}

func (s *System) anchor(b Body) dynamo.Vec3 {
	if b.HasParent() {
		return s.bodies[b.Parent].Position
	}
	return dynamo.Zero
}
