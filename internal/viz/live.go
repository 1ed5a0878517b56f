package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/solarsim/internal/analysis"
	"github.com/san-kum/solarsim/internal/control"
	"github.com/san-kum/solarsim/internal/orbit"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 120
	kmPerAU         = 149597870.7
)

// Options configures the terminal view.
type Options struct {
	Title    string
	Lens     scene.Lens
	Scales   scene.Scales
	Segments int
	FPS      float64
	// Width and Height are the canvas size in terminal cells.
	Width, Height int
	GIFPath       string
}

func DefaultOptions() Options {
	return Options{
		Title:    "solarsim",
		Lens:     scene.Lens{FOV: 70, Near: 0.001, Far: 500},
		Scales:   scene.Scales{Distance: 1e-8, Size: 5e-6},
		Segments: 360,
		FPS:      30,
		Width:    width,
		Height:   height,
		GIFPath:  "solarsim.gif",
	}
}

type TickMsg time.Time

// Model is the bubbletea model of the live terminal view. Key presses go
// through a control.Latch; the simulation is stepped on every tick.
type Model struct {
	sim       *sim.Simulation
	latch     *control.Latch
	opts      Options
	canvas    *Canvas
	collector *scene.Collector
	frame     sim.Frame
	running   bool
	showHelp  bool
	focus     int
	distances []float64
	recording bool
	recorder  *Recorder
	status    string
	log       *slog.Logger
}

func NewModel(s *sim.Simulation, opts Options) Model {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = width, height
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	return Model{
		sim:       s,
		latch:     &control.Latch{},
		opts:      opts,
		canvas:    NewCanvas(opts.Width, opts.Height),
		collector: &scene.Collector{Scales: opts.Scales, MinRadius: 0.5},
		frame:     s.Snapshot(),
		running:   true,
		focus:     -1,
		distances: make([]float64, 0, historyCapacity),
		recorder:  &Recorder{},
		log:       slog.With("component", "tui"),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(float64(time.Second)/m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		intent, cmds := m.latch.Snapshot()
		if m.running {
			m.frame = m.sim.Step(intent, cmds)
			m.track()
		}
		if m.recording {
			m.draw()
			m.recorder.Capture(m.canvas, themeColor(CurrentTheme.Canvas))
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "?":
		m.showHelp = !m.showHelp
	case "t":
		NextTheme()
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording = true
			m.status = "recording"
		}
	case "tab":
		m.focusNext()
	default:
		if b, ok := control.Lookup(key); ok {
			if b.Command != 0 {
				m.latch.Trigger(b.Command)
			} else {
				m.latch.Pulse(b.Intent)
			}
		}
	}
	return m, nil
}

func (m *Model) stopRecording() {
	m.recording = false
	n := m.recorder.Len()
	if err := m.recorder.Save(m.opts.GIFPath); err != nil {
		m.log.Warn("saving recording failed", "path", m.opts.GIFPath, "err", err)
		m.status = "recording failed: " + err.Error()
		return
	}
	m.log.Info("recording saved", "path", m.opts.GIFPath, "frames", n)
	m.status = fmt.Sprintf("saved %d frames to %s", n, m.opts.GIFPath)
}

// focusNext turns the camera towards the next body in registration order.
func (m *Model) focusNext() {
	n := m.sim.System.Len()
	if n == 0 {
		return
	}
	m.focus = (m.focus + 1) % n
	b, err := m.sim.System.Body(orbit.BodyID(m.focus))
	if err != nil {
		return
	}
	if err := m.sim.Camera.PointAt(m.opts.Scales.Point(b.Position)); err != nil {
		m.status = "cannot face " + b.Name
		return
	}
	m.status = "facing " + b.Name
	m.frame = m.sim.Snapshot()
}

// track records the camera's distance to the origin in AU.
func (m *Model) track() {
	d := m.frame.Camera.Length() / m.opts.Scales.Distance / kmPerAU
	if len(m.distances) == historyCapacity {
		m.distances = m.distances[1:]
	}
	m.distances = append(m.distances, d)
}

// nearest returns the closest body to the camera and its distance in km.
func (m Model) nearest() (orbit.Pose, float64, bool) {
	cam := m.frame.Camera.Scale(1 / m.opts.Scales.Distance)
	best, bestD := orbit.Pose{}, math.Inf(1)
	for _, p := range m.frame.Poses {
		if d := p.Position.Sub(cam).Length() - p.Radius; d < bestD {
			best, bestD = p, d
		}
	}
	return best, bestD, !math.IsInf(bestD, 1)
}

func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Dots()
	m.collector.Projector = scene.NewProjector(m.frame.View(), m.opts.Lens, w, h)
	scene.Capture(m.sim.System, m.collector, m.frame.ShowOrbits, m.opts.Segments)
	RenderScene(m.canvas, m.collector)
}

// View renders the TUI interface.
func (m Model) View() string {
	st := currentStyles()
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.opts.Title), CurrentTheme.Primary, CurrentTheme.Accent) + "\n\n")
	switch {
	case m.recording:
		s.WriteString(st.recording.Render(fmt.Sprintf("● REC %d", m.recorder.Len())) + "\n\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.distances) > 1 {
		chart := asciigraph.Plot(m.distances, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Distance to sun (AU)"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Day", fmt.Sprintf("%.2f", m.frame.Time))
	row("Time speed", fmt.Sprintf("%g d/frame", m.frame.TimeSpeed))
	c := m.frame.Camera
	row("Camera", fmt.Sprintf("%.3f %.3f %.3f", c.X, c.Y, c.Z))
	row("Cam speed", fmt.Sprintf("%g", m.frame.CameraSpeed))
	orbits := "hidden"
	if m.frame.ShowOrbits {
		orbits = "shown"
	}
	row("Orbits", orbits)
	if p, d, ok := m.nearest(); ok {
		row("Nearest", st.selected.Render(p.Name))
		row("Range", fmt.Sprintf("%.3g km", math.Max(d, 0)))
		row("Light time", analysis.LightTime(math.Max(d, 0)).Round(time.Millisecond).String())
	}
	row("Visible", fmt.Sprintf("%d bodies", len(m.collector.Discs)))
	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}

	s.WriteString(st.help.Render("\n" + Separator(30) + "\nWASD:Move QE:Yaw IK:Pitch JL:Roll\n=/-:Time ,/.:Speed O:Orbits\nSP:Pause Tab:Focus G:Record\nT:Theme ?:Help Esc:Quit"))
	statsView := st.panel.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  W / S    - Move forward / back      ║
║  A / D    - Strafe left / right      ║
║  Q / E    - Yaw left / right         ║
║  I / K    - Pitch down / up          ║
║  J / L    - Roll left / right        ║
║  = / -    - Double / halve time      ║
║  . / ,    - Camera faster / slower   ║
║  O        - Toggle orbits            ║
║  Tab      - Face next body           ║
║  Space    - Pause/Resume             ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Esc      - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the live view on the alternate screen.
func Run(s *sim.Simulation, opts Options) error {
	_, err := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen()).Run()
	return err
}
