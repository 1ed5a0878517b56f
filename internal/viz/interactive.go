package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/solarsim/internal/sim"
)

// Choice is one entry of the start menu, usually a camera viewpoint.
type Choice struct {
	Name        string
	Description string
}

// Launcher builds the simulation for the chosen entry.
type Launcher func(name string) (*sim.Simulation, error)

const (
	stateMenu = iota
	stateSim
)

type model struct {
	state, cursor int
	choices       []Choice
	launch        Launcher
	opts          Options
	err           error
	liveModel     Model
}

func NewInteractiveApp(choices []Choice, launch Launcher, opts Options) *model {
	return &model{
		state:   stateMenu,
		choices: choices,
		launch:  launch,
		opts:    opts,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.menuKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.choices) == 0 {
			return m, nil
		}
		return m.start()
	}
	return m, nil
}

func (m model) start() (model, tea.Cmd) {
	c := m.choices[m.cursor]
	s, err := m.launch(c.Name)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.liveModel = NewModel(s, m.opts)
	m.state = stateSim
	return m, m.liveModel.Init()
}

func (m model) View() string {
	if m.state == stateSim {
		return m.liveModel.View()
	}
	return m.viewMenu()
}

func (m model) viewMenu() string {
	st := currentStyles()
	dim := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("SOLARSIM", CurrentTheme.Primary, CurrentTheme.Accent) + "\n    " + dim.Render("choose a viewpoint") + "\n    " + dim.Render("─────────────────────────") + "\n\n")
	for i, c := range m.choices {
		desc := c.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", st.selected.Render("▸"), st.value.Bold(true).Render(fmt.Sprintf("%-10s", c.Name)), st.selected.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dim.Render(fmt.Sprintf("  %-10s", c.Name)), dim.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + st.selected.Render("j/k") + dim.Render(" navigate  ") + st.selected.Render("enter") + dim.Render(" select  ") + st.selected.Render("q") + dim.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive shows the viewpoint menu and then the live view.
func RunInteractive(choices []Choice, launch Launcher, opts Options) error {
	_, err := tea.NewProgram(NewInteractiveApp(choices, launch, opts), tea.WithAltScreen()).Run()
	return err
}
