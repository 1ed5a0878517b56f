package control

import (
	"strings"

	"github.com/san-kum/solarsim/internal/camera"
)

// Intent is the set of continuous commands active during one frame.
type Intent uint16

const (
	Forward Intent = 1 << iota
	Backward
	Left
	Right
	YawLeft
	YawRight
	PitchUp
	PitchDown
	RollLeft
	RollRight
)

// None is the empty intent.
const None Intent = 0

var intentNames = []struct {
	bit  Intent
	name string
}{
	{Forward, "forward"},
	{Backward, "backward"},
	{Left, "left"},
	{Right, "right"},
	{YawLeft, "yaw-left"},
	{YawRight, "yaw-right"},
	{PitchUp, "pitch-up"},
	{PitchDown, "pitch-down"},
	{RollLeft, "roll-left"},
	{RollRight, "roll-right"},
}

func (i Intent) With(o Intent) Intent    { return i | o }
func (i Intent) Without(o Intent) Intent { return i &^ o }
func (i Intent) Has(o Intent) bool       { return o != 0 && i&o == o }

func (i Intent) String() string {
	if i == None {
		return "none"
	}
	var parts []string
	for _, n := range intentNames {
		if i.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseIntent is the inverse of String.
func ParseIntent(s string) (Intent, bool) {
	if s == "" || s == "none" {
		return None, true
	}
	var out Intent
	for _, p := range strings.Split(s, "+") {
		found := false
		for _, n := range intentNames {
			if n.name == p {
				out |= n.bit
				found = true
				break
			}
		}
		if !found {
			return None, false
		}
	}
	return out, true
}

// Apply runs every command in i against cam in a fixed order: translations
// first, then yaw, roll and pitch. Opposite commands cancel out.
func Apply(cam *camera.Camera, i Intent) {
	steps := []struct {
		bit Intent
		fn  func()
	}{
		{Forward, cam.Forward},
		{Backward, cam.Backward},
		{Left, cam.Left},
		{Right, cam.Right},
		{YawLeft, cam.YawLeft},
		{YawRight, cam.YawRight},
		{RollLeft, cam.RollLeft},
		{RollRight, cam.RollRight},
		{PitchUp, cam.PitchUp},
		{PitchDown, cam.PitchDown},
	}
	for _, s := range steps {
		if i.Has(s.bit) {
			s.fn()
		}
	}
}
