package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/control"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/orbit"
)

const skyRadius = 50

func vec(v dynamo.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// cameraFor expresses the free-fly camera as a raylib camera looking along
// forward from pos.
func cameraFor(pos dynamo.Vec3, b camera.Basis, fovY float64) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec(pos),
		Target:     vec(pos.Add(b.Forward)),
		Up:         vec(b.Up),
		Fovy:       float32(fovY),
		Projection: rl.CameraPerspective,
	}
}

// drawSkybox draws the star sphere with the orientation only, so it never
// moves relative to the camera. Depth writes are off so everything else
// draws over it.
func (a *App) drawSkybox() {
	if !a.hasSky {
		return
	}
	cam := cameraFor(dynamo.Zero, a.Sim.Camera.Basis(), a.Opts.Lens.FOV)
	rl.BeginMode3D(cam)
	rl.DisableBackfaceCulling()
	rl.DisableDepthMask()
	rl.DrawModel(a.sky, rl.NewVector3(0, 0, 0), skyRadius, rl.White)
	rl.EnableDepthMask()
	rl.EnableBackfaceCulling()
	rl.EndMode3D()
}

// drawScene draws orbit rings and bodies with the full view transform.
func (a *App) drawScene() {
	cam := cameraFor(a.Sim.Camera.Position(), a.Sim.Camera.Basis(), a.Opts.Lens.FOV)
	rl.BeginMode3D(cam)

	if a.frame.ShowOrbits {
		a.Sim.System.RenderOrbits(a, a.Opts.Segments)
	}
	a.Sim.System.Render(a)

	rl.EndMode3D()
}

// DrawBody draws a textured sphere spun about its Y axis. Untextured bodies
// use the plain white sphere.
func (a *App) DrawBody(p orbit.Pose) {
	sc := a.Opts.Scales
	m, ok := a.bodies[p.Texture]
	if !ok {
		m = a.plain
	}
	r := float32(p.Radius * sc.Size)
	rl.DrawModelEx(m, vec(sc.Point(p.Position)), rl.NewVector3(0, 1, 0), float32(p.SpinAngle),
		rl.NewVector3(r, r, r), rl.White)
}

func (a *App) DrawOrbit(_ dynamo.Vec3, ring []dynamo.Vec3) {
	sc := a.Opts.Scales
	for i := range ring {
		p0 := sc.Point(ring[i])
		p1 := sc.Point(ring[(i+1)%len(ring)])
		rl.DrawLine3D(vec(p0), vec(p1), ColOrbit)
	}
}

// keyCode maps a binding key to its raylib key code.
func keyCode(key string) (int32, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= 'a' && c <= 'z':
		return rl.KeyA + int32(c-'a'), true
	case c == '=':
		return rl.KeyEqual, true
	case c == '-':
		return rl.KeyMinus, true
	case c == '.':
		return rl.KeyPeriod, true
	case c == ',':
		return rl.KeyComma, true
	}
	return 0, false
}

// pollKeys mirrors held movement keys into the latch and triggers commands
// on the frame their key goes down.
func pollKeys(l *control.Latch, isDown, isPressed func(int32) bool) {
	for _, b := range control.DefaultBindings {
		code, ok := keyCode(b.Key)
		if !ok {
			continue
		}
		if b.Command != 0 {
			if isPressed(code) {
				l.Trigger(b.Command)
			}
			continue
		}
		if isDown(code) {
			l.Press(b.Intent)
		} else {
			l.Release(b.Intent)
		}
	}
}
