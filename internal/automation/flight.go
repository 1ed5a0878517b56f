// Package automation plays scripted camera flights. A scenario is a YAML
// list of steps, each holding an intent for a number of frames.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/solarsim/internal/control"
	"github.com/san-kum/solarsim/internal/sim"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Scenario defines a scripted flight.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Preset names a camera viewpoint to start from.
	Preset string `yaml:"preset,omitempty"`
	Steps  []Step `yaml:"steps"`
}

// Step holds Intent for Frames frames. Commands fire on the first frame;
// Snapshot, when set, names an image written after the last one.
type Step struct {
	Intent   string   `yaml:"intent"`
	Commands []string `yaml:"commands,omitempty"`
	Frames   int      `yaml:"frames"`
	Snapshot string   `yaml:"snapshot,omitempty"`
}

type step struct {
	intent control.Intent
	cmds   []control.Command
	frames int
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	_, err := sc.compile()
	return err
}

// Frames is the length of the whole flight.
func (sc *Scenario) Frames() int {
	n := 0
	for _, st := range sc.Steps {
		n += st.Frames
	}
	return n
}

func (sc *Scenario) compile() ([]step, error) {
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	out := make([]step, len(sc.Steps))
	for i, st := range sc.Steps {
		if st.Frames < 1 {
			return nil, fmt.Errorf("%w: step %d: frames must be at least 1", ErrInvalidScenario, i+1)
		}
		intent, ok := control.ParseIntent(st.Intent)
		if !ok {
			return nil, fmt.Errorf("%w: step %d: unknown intent %q", ErrInvalidScenario, i+1, st.Intent)
		}
		out[i] = step{intent: intent, frames: st.Frames}
		for _, name := range st.Commands {
			c, ok := control.ParseCommand(name)
			if !ok {
				return nil, fmt.Errorf("%w: step %d: unknown command %q", ErrInvalidScenario, i+1, name)
			}
			out[i].cmds = append(out[i].cmds, c)
		}
	}
	return out, nil
}

// Player feeds a scenario to the frame loop. It satisfies sim.Source and
// yields no input once the flight is over.
type Player struct {
	steps  []step
	i      int
	frame  int
	played int
	total  int
}

func NewPlayer(sc *Scenario) (*Player, error) {
	steps, err := sc.compile()
	if err != nil {
		return nil, err
	}
	return &Player{steps: steps, total: sc.Frames()}, nil
}

func (p *Player) Snapshot() (control.Intent, []control.Command) {
	for p.i < len(p.steps) && p.frame >= p.steps[p.i].frames {
		p.i++
		p.frame = 0
	}
	if p.i >= len(p.steps) {
		return control.None, nil
	}
	st := p.steps[p.i]
	var cmds []control.Command
	if p.frame == 0 {
		cmds = st.cmds
	}
	p.frame++
	p.played++
	return st.intent, cmds
}

// Step is the index of the step the last snapshot came from.
func (p *Player) Step() int { return min(p.i, len(p.steps)-1) }

func (p *Player) Done() bool { return p.played >= p.total }

// Run plays sc against s as fast as possible. onStep, if non-nil, is called
// with the frame that ends each step.
func Run(ctx context.Context, s *sim.Simulation, sc *Scenario, onStep func(i int, st Step, f sim.Frame) error) (sim.Frame, error) {
	p, err := NewPlayer(sc)
	if err != nil {
		return sim.Frame{}, err
	}
	logger := slog.With("component", "automation", "scenario", sc.Name)

	f := s.Snapshot()
	for i, st := range sc.Steps {
		for n := 0; n < st.Frames; n++ {
			if err := ctx.Err(); err != nil {
				return f, err
			}
			f = s.Step(p.Snapshot())
		}
		logger.Debug("step done", "step", i+1, "intent", st.Intent, "time", f.Time)

		if onStep != nil {
			if err := onStep(i, st, f); err != nil {
				return f, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return f, nil
}
