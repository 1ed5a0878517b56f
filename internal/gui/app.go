// Package gui is the windowed front end: textured bodies, orbit rings and a
// star skybox drawn with raylib through the free-fly camera.
package gui

import (
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/solarsim/internal/control"
	"github.com/san-kum/solarsim/internal/orbit"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/sim"
	"github.com/san-kum/solarsim/internal/texture"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColOrbit   = rl.NewColor(90, 90, 110, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

// Options configures the window.
type Options struct {
	Width, Height int32
	FPS           int32
	Lens          scene.Lens
	Scales        scene.Scales
	Segments      int
	// Skybox names a texture in the registry; empty disables it.
	Skybox string
}

type App struct {
	Sim      *sim.Simulation
	Latch    *control.Latch
	Textures *texture.Registry
	Opts     Options
	Running  bool
	ShowHUD  bool
	Font     rl.Font

	frame  sim.Frame
	focus  int
	status string
	bodies map[orbit.TextureRef]rl.Model
	plain  rl.Model
	sky    rl.Model
	hasSky bool
	log    *slog.Logger
}

// initWindow opens the window and keeps Escape as the exit key.
func initWindow(o Options) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(o.Width, o.Height, "solarsim")
	rl.SetTargetFPS(o.FPS)
	rl.SetExitKey(rl.KeyEscape)
}

// loadFont loads Liberation Mono when installed, otherwise raylib's default.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp uploads textures and builds the sphere models. The window must be
// open.
func NewApp(s *sim.Simulation, reg *texture.Registry, opts Options) *App {
	a := &App{
		Sim:      s,
		Latch:    &control.Latch{},
		Textures: reg,
		Opts:     opts,
		Running:  true,
		ShowHUD:  true,
		Font:     loadFont(),
		frame:    s.Snapshot(),
		focus:    -1,
		bodies:   make(map[orbit.TextureRef]rl.Model),
		log:      slog.With("component", "gui"),
	}
	a.plain = rl.LoadModelFromMesh(rl.GenMeshSphere(1, 32, 32))
	for _, b := range s.System.Bodies() {
		if b.Texture == orbit.NoTexture {
			continue
		}
		if _, ok := a.bodies[b.Texture]; ok {
			continue
		}
		tex, err := a.upload(b.Texture)
		if err != nil {
			a.log.Warn("texture upload failed", "body", b.Name, "error", err)
			continue
		}
		m := rl.LoadModelFromMesh(rl.GenMeshSphere(1, 32, 32))
		rl.SetMaterialTexture(m.Materials, rl.MapDiffuse, tex)
		a.bodies[b.Texture] = m
	}
	a.loadSkybox()
	return a
}

func (a *App) upload(ref orbit.TextureRef) (rl.Texture2D, error) {
	if a.Textures == nil {
		return rl.Texture2D{}, texture.ErrUnknownTexture
	}
	img, err := a.Textures.Image(ref)
	if err != nil {
		return rl.Texture2D{}, err
	}
	tex := rl.LoadTextureFromImage(rl.NewImageFromImage(img))
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	return tex, nil
}

func (a *App) loadSkybox() {
	if a.Opts.Skybox == "" || a.Textures == nil {
		return
	}
	ref, err := a.Textures.Load(a.Opts.Skybox)
	if err != nil {
		a.log.Warn("skybox unavailable", "texture", a.Opts.Skybox, "error", err)
		return
	}
	tex, err := a.upload(ref)
	if err != nil {
		a.log.Warn("skybox upload failed", "error", err)
		return
	}
	a.sky = rl.LoadModelFromMesh(rl.GenMeshSphere(1, 32, 32))
	rl.SetMaterialTexture(a.sky.Materials, rl.MapDiffuse, tex)
	a.hasSky = true
}

// Unload frees GPU resources.
func (a *App) Unload() {
	for _, m := range a.bodies {
		rl.UnloadModel(m)
	}
	rl.UnloadModel(a.plain)
	if a.hasSky {
		rl.UnloadModel(a.sky)
	}
}

// Run opens a window, drives s once per displayed frame and blocks until
// the window is closed.
func Run(s *sim.Simulation, reg *texture.Registry, opts Options) {
	initWindow(opts)
	defer rl.CloseWindow()
	app := NewApp(s, reg, opts)
	defer app.Unload()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// Update polls the keyboard into the latch and steps the simulation.
func (a *App) Update() {
	pollKeys(a.Latch, rl.IsKeyDown, rl.IsKeyPressed)

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.focusNext()
	}

	intent, cmds := a.Latch.Snapshot()
	if a.Running {
		a.frame = a.Sim.Step(intent, cmds)
	}
}

func (a *App) focusNext() {
	n := a.Sim.System.Len()
	if n == 0 {
		return
	}
	a.focus = (a.focus + 1) % n
	b, err := a.Sim.System.Body(orbit.BodyID(a.focus))
	if err != nil {
		return
	}
	if err := a.Sim.Camera.PointAt(a.Opts.Scales.Point(b.Position)); err != nil {
		a.status = "cannot face " + b.Name
		return
	}
	a.status = "facing " + b.Name
	a.frame = a.Sim.Snapshot()
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawSkybox()
	a.drawScene()
	if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	f := a.frame
	a.drawText("solarsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: day %.2f", f.Time), 160, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, int(a.Opts.Width)-130, 30, 16, col)

	a.drawText(fmt.Sprintf("time speed  %g d/frame", f.TimeSpeed), 30, 70, 14, ColText)
	a.drawText(fmt.Sprintf("cam speed   %g", f.CameraSpeed), 30, 90, 14, ColText)
	a.drawText(fmt.Sprintf("camera      %.3f %.3f %.3f", f.Camera.X, f.Camera.Y, f.Camera.Z), 30, 110, 14, ColText)
	if a.status != "" {
		a.drawText(a.status, 30, 130, 14, ColSelect)
	}

	h := int(a.Opts.Height)
	a.drawText("[WASD] MOVE  [QE] YAW  [IK] PITCH  [JL] ROLL  [=/-] TIME  [,/.] SPEED  [O] ORBITS  [TAB] FOCUS  [SPACE] PAUSE  [H] HUD", 30, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), int(a.Opts.Width)-90, h-40, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
