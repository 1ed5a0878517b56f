package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/solarsim/internal/orbit"
)

func solar(t *testing.T) *orbit.System {
	t.Helper()
	sys, err := orbit.NewSolarSystem(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return sys
}

func mustLookup(t *testing.T, sys *orbit.System, name string) orbit.BodyID {
	t.Helper()
	id, err := sys.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestDominantPeriod_PureTone(t *testing.T) {
	const n, dt, period = 512, 0.5, 16.0
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Cos(2*math.Pi*float64(i)*dt/period)
	}

	got, err := DominantPeriod(data, dt)
	if err != nil {
		t.Fatalf("period: %v", err)
	}
	if math.Abs(got-period) > 1e-6 {
		t.Errorf("expected %v, got %v", period, got)
	}
}

func TestDominantPeriod_Errors(t *testing.T) {
	if _, err := DominantPeriod([]float64{1, 2}, 1); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
	if _, err := DominantPeriod(make([]float64, 64), 1); err == nil {
		t.Error("expected error for constant signal")
	}
}

func TestEstimatePeriod(t *testing.T) {
	tests := []struct {
		body string
		dt   float64
		n    int
		want float64
		tol  float64
	}{
		{"earth", 365.0 / 32, 1024, 365, 1e-6},
		{"mercury", 88.0 / 16, 512, 88, 1e-6},
		{"moon", 0.25, 2048, 27.3, 0.03 * 27.3},
		{"mars", 5, 4096, 686, 0.03 * 686},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			sys := solar(t)
			got, err := EstimatePeriod(sys, mustLookup(t, sys, tt.body), 0, tt.dt, tt.n)
			if err != nil {
				t.Fatalf("estimate: %v", err)
			}
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("expected %v ± %v, got %v", tt.want, tt.tol, got)
			}
		})
	}
}

func TestSample(t *testing.T) {
	sys := solar(t)
	moon := mustLookup(t, sys, "moon")

	rel, err := Sample(sys, moon, 0, 1, 10, true)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range rel {
		if math.Abs(p.Length()-7000000) > 1e-3 {
			t.Errorf("sample %d: moon should stay 7e6 km from earth, got %v", i, p.Length())
		}
	}

	if _, err := Sample(sys, moon, 0, 1, 0, true); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
	if _, err := Sample(sys, 99, 0, 1, 5, false); err == nil {
		t.Error("expected error for unknown body")
	}
}

func TestSampleRejectsBadSampling(t *testing.T) {
	sys := solar(t)
	earth := mustLookup(t, sys, "earth")

	tests := []struct {
		name   string
		t0, dt float64
		n      int
	}{
		{"too many", 0, 1, MaxSamples + 1},
		{"nan start", math.NaN(), 1, 10},
		{"infinite step", 0, math.Inf(1), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Sample(sys, earth, tt.t0, tt.dt, tt.n, false); !errors.Is(err, ErrBadSampling) {
				t.Errorf("expected ErrBadSampling, got %v", err)
			}
			if _, err := Distances(sys, earth, 0, tt.t0, tt.dt, tt.n); !errors.Is(err, ErrBadSampling) {
				t.Errorf("expected ErrBadSampling from Distances, got %v", err)
			}
		})
	}
}

func TestDistancesAndLightTime(t *testing.T) {
	sys := solar(t)
	sun := mustLookup(t, sys, "sun")
	earth := mustLookup(t, sys, "earth")

	d, err := Distances(sys, sun, earth, 0, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range d {
		if math.Abs(v-149600000) > 1e-3 {
			t.Errorf("expected 1 AU, got %v", v)
		}
	}

	lt := LightTime(d[0])
	if lt < 498*time.Second || lt > 500*time.Second {
		t.Errorf("expected about 499s, got %v", lt)
	}
}

func TestCrossings(t *testing.T) {
	sys := solar(t)
	earth := mustLookup(t, sys, "earth")

	times, err := Crossings(sys, earth, 1, 1, 1085)
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 2 {
		t.Fatalf("expected 2 crossings, got %v", times)
	}
	for i, want := range []float64{365, 730} {
		if math.Abs(times[i]-want) > 0.01 {
			t.Errorf("crossing %d: expected %v, got %v", i, want, times[i])
		}
	}
}

func TestTraceToASCII(t *testing.T) {
	sys := solar(t)
	pts, err := Trace(sys, mustLookup(t, sys, "venus"), 0, 5, 60)
	if err != nil {
		t.Fatal(err)
	}

	out := TraceToASCII(pts, 40, 20)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 20 {
		t.Errorf("expected 20 rows, got %d", len(lines))
	}
	if !strings.ContainsRune(out, '☉') || !strings.ContainsRune(out, '•') {
		t.Errorf("expected sun and path markers:\n%s", out)
	}
	if TraceToASCII(nil, 40, 20) != "" {
		t.Error("expected empty output for no points")
	}
}
