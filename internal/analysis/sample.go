package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/orbit"
)

// SpeedOfLight in km/s.
const SpeedOfLight = 299792.458

var (
	ErrTooFewSamples = errors.New("analysis: too few samples")
	ErrBadSampling   = errors.New("analysis: invalid sampling")
)

// MaxSamples bounds one sampling run.
const MaxSamples = 1 << 20

// Sample recomputes sys at t0, t0+dt, ... and records body id. Positions are
// relative to the body's parent when relative is set. sys is left at the
// last sample time.
func Sample(sys *orbit.System, id orbit.BodyID, t0, dt float64, n int, relative bool) ([]dynamo.Vec3, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrTooFewSamples, n)
	}
	if n > MaxSamples || !finite(t0) || !finite(dt) {
		return nil, fmt.Errorf("%w: %d samples from %g every %g", ErrBadSampling, n, t0, dt)
	}
	b, err := sys.Body(id)
	if err != nil {
		return nil, err
	}

	out := make([]dynamo.Vec3, n)
	for i := range out {
		sys.CalculatePositions(t0 + float64(i)*dt)
		b, _ = sys.Body(id)
		p := b.Position
		if relative && b.HasParent() {
			parent, _ := sys.Body(b.Parent)
			p = p.Sub(parent.Position)
		}
		out[i] = p
	}
	return out, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Distances is the separation in km between a and b at each sample time.
func Distances(sys *orbit.System, a, b orbit.BodyID, t0, dt float64, n int) ([]float64, error) {
	pa, err := Sample(sys, a, t0, dt, n, false)
	if err != nil {
		return nil, err
	}
	pb, err := Sample(sys, b, t0, dt, n, false)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = pa[i].Sub(pb[i]).Length()
	}
	return out, nil
}

// LightTime is the one-way signal delay over distanceKm.
func LightTime(distanceKm float64) time.Duration {
	seconds := distanceKm / SpeedOfLight
	return time.Duration(seconds * float64(time.Second))
}

func xs(ps []dynamo.Vec3) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.X
	}
	return out
}
