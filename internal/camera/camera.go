// Package camera implements the free-fly camera: a position, an orthonormal
// right/up/forward basis and fixed-step movement commands.
//
// Positions are in scene units (kilometres multiplied by the render distance
// scale); angles are degrees.
package camera

import (
	"math"

	"github.com/san-kum/solarsim/internal/dynamo"
)

const (
	DefaultMoveSpeed   = 0.005
	DefaultTurnSpeed   = 0.5
	DefaultMinSpeed    = 1e-6
	DefaultMaxSpeed    = 1.0
	DefaultSpeedFactor = 2.0
)

// Options configures New. Zero fields take the defaults; a zero basis means
// looking down -Z with +Y up.
type Options struct {
	Position    dynamo.Vec3
	Forward     dynamo.Vec3
	Up          dynamo.Vec3
	MoveSpeed   float64
	TurnSpeed   float64
	MinSpeed    float64
	MaxSpeed    float64
	SpeedFactor float64
}

type Camera struct {
	position dynamo.Vec3
	right    dynamo.Vec3
	up       dynamo.Vec3
	forward  dynamo.Vec3

	moveSpeed   float64
	turnSpeed   float64
	minSpeed    float64
	maxSpeed    float64
	speedFactor float64
}

// Basis is a snapshot of the camera orientation.
type Basis struct {
	Right, Up, Forward dynamo.Vec3
}

func New(opts Options) (*Camera, error) {
	c := &Camera{
		position:    opts.Position,
		forward:     opts.Forward,
		up:          opts.Up,
		moveSpeed:   orDefault(opts.MoveSpeed, DefaultMoveSpeed),
		turnSpeed:   orDefault(opts.TurnSpeed, DefaultTurnSpeed),
		minSpeed:    orDefault(opts.MinSpeed, DefaultMinSpeed),
		maxSpeed:    orDefault(opts.MaxSpeed, DefaultMaxSpeed),
		speedFactor: orDefault(opts.SpeedFactor, DefaultSpeedFactor),
	}
	if c.forward == dynamo.Zero {
		c.forward = dynamo.Vec3{Z: -1}
	}
	if c.up == dynamo.Zero {
		c.up = dynamo.UnitY
	}
	if !c.position.IsValid() || c.minSpeed <= 0 || c.maxSpeed < c.minSpeed || c.speedFactor <= 1 {
		return nil, dynamo.ErrInvalidCamera
	}
	c.moveSpeed = clamp(c.moveSpeed, c.minSpeed, c.maxSpeed)
	if err := c.orthonormalize(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns a camera at the origin looking down -Z.
func Default() *Camera {
	c, _ := New(Options{})
	return c
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// orthonormalize applies Gram-Schmidt with forward as the reference axis.
func (c *Camera) orthonormalize() error {
	f := c.forward.Normalize()
	if f == dynamo.Zero || !f.IsValid() {
		return dynamo.ErrDegenerateBasis
	}
	u := c.up.Sub(f.Scale(c.up.Dot(f))).Normalize()
	if u == dynamo.Zero || !u.IsValid() {
		return dynamo.ErrDegenerateBasis
	}
	c.forward = f
	c.up = u
	c.right = f.Cross(u)
	return nil
}

func (c *Camera) Position() dynamo.Vec3 { return c.position }
func (c *Camera) MoveSpeed() float64    { return c.moveSpeed }
func (c *Camera) TurnSpeed() float64    { return c.turnSpeed }

func (c *Camera) Basis() Basis {
	return Basis{Right: c.right, Up: c.up, Forward: c.forward}
}

func (c *Camera) SetPosition(p dynamo.Vec3) { c.position = p }

func (c *Camera) Forward()  { c.position = c.position.Add(c.forward.Scale(c.moveSpeed)) }
func (c *Camera) Backward() { c.position = c.position.Sub(c.forward.Scale(c.moveSpeed)) }
func (c *Camera) Left()     { c.position = c.position.Sub(c.right.Scale(c.moveSpeed)) }
func (c *Camera) Right()    { c.position = c.position.Add(c.right.Scale(c.moveSpeed)) }

func (c *Camera) YawLeft()   { c.rotate(c.up, c.turnSpeed) }
func (c *Camera) YawRight()  { c.rotate(c.up, -c.turnSpeed) }
func (c *Camera) PitchUp()   { c.rotate(c.right, c.turnSpeed) }
func (c *Camera) PitchDown() { c.rotate(c.right, -c.turnSpeed) }
func (c *Camera) RollLeft()  { c.rotate(c.forward, -c.turnSpeed) }
func (c *Camera) RollRight() { c.rotate(c.forward, c.turnSpeed) }

func (c *Camera) rotate(axis dynamo.Vec3, deg float64) {
	f := c.forward.Rotate(axis, deg)
	u := c.up.Rotate(axis, deg)
	prevF, prevU := c.forward, c.up
	c.forward, c.up = f, u
	if err := c.orthonormalize(); err != nil {
		c.forward, c.up = prevF, prevU
		_ = c.orthonormalize()
	}
}

// SpeedUp multiplies the move speed, saturating at the maximum.
func (c *Camera) SpeedUp() {
	c.moveSpeed = math.Min(c.moveSpeed*c.speedFactor, c.maxSpeed)
}

// SlowDown divides the move speed, saturating at the minimum.
func (c *Camera) SlowDown() {
	c.moveSpeed = math.Max(c.moveSpeed/c.speedFactor, c.minSpeed)
}

// PointAt turns the camera towards target, keeping world up where possible.
func (c *Camera) PointAt(target dynamo.Vec3) error {
	f := target.Sub(c.position).Normalize()
	if f == dynamo.Zero {
		return dynamo.ErrDegenerateBasis
	}
	up := dynamo.UnitY
	for _, hint := range []dynamo.Vec3{dynamo.UnitY, c.up, c.forward} {
		if math.Abs(f.Dot(hint)) < 0.999 {
			up = hint
			break
		}
	}
	prevF, prevU := c.forward, c.up
	c.forward, c.up = f, up
	if err := c.orthonormalize(); err != nil {
		c.forward, c.up = prevF, prevU
		_ = c.orthonormalize()
		return err
	}
	return nil
}

// TransformOrientation is the rotation-only part of the view transform.
// Geometry drawn with it alone stays centred on the camera (skybox).
func (c *Camera) TransformOrientation() dynamo.Transform {
	return dynamo.Rotation(c.right, c.up, c.forward)
}

// TransformTranslation moves the world opposite to the camera position.
// It is applied after TransformOrientation.
func (c *Camera) TransformTranslation() dynamo.Transform {
	return dynamo.Translation(c.position.Scale(-1))
}

// View combines both transforms into the world-to-camera matrix.
func (c *Camera) View() dynamo.Transform {
	return c.TransformOrientation().Mul(c.TransformTranslation())
}
