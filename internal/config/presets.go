package config

import "sort"

// Viewpoint is a named camera pose in scene units. When Target names a body
// the camera turns towards it once positions are known.
type Viewpoint struct {
	Description string
	Position    Vec
	Forward     Vec
	Up          Vec
	Target      string
}

var Viewpoints = map[string]Viewpoint{
	"default": {
		Description: "above and behind the inner system",
		Position:    Vec{0.764331460, 0.642456770, 1.668276381},
		Forward:     Vec{-0.398770140, -0.508721195, -0.763010564},
		Up:          Vec{-0.235631500, 0.860931325, -0.450860345},
	},
	"inner": {
		Description: "oblique view out to mars",
		Position:    Vec{0, 2.5, 3.5},
		Forward:     Vec{0, -0.581238194, -0.813733471},
		Up:          Vec{0, 0.813733471, -0.581238194},
	},
	"outer": {
		Description: "wide view out to pluto",
		Position:    Vec{0, 40, 60},
		Forward:     Vec{0, -0.554700196, -0.832050294},
		Up:          Vec{0, 0.832050294, -0.554700196},
	},
	"earth": {
		Description: "close to earth, looking at it",
		Position:    Vec{1.7, 0.15, 0},
		Forward:     Vec{-1, 0, 0},
		Up:          Vec{0, 1, 0},
		Target:      "earth",
	},
	"topdown": {
		Description: "straight down on the orbital plane",
		Position:    Vec{0, 8, 0},
		Forward:     Vec{0, -1, 0},
		Up:          Vec{0, 0, -1},
	},
}

func GetPreset(name string) *Viewpoint {
	vp, ok := Viewpoints[name]
	if !ok {
		return nil
	}
	return &vp
}

func ListPresets() []string {
	names := make([]string, 0, len(Viewpoints))
	for name := range Viewpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
