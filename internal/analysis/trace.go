package analysis

import (
	"strings"

	"github.com/san-kum/solarsim/internal/orbit"
)

// Point is a position in the orbital plane as seen from above: X to the
// right and Z downwards.
type Point struct{ X, Z float64 }

// Trace projects the path of a body onto the orbital plane.
func Trace(sys *orbit.System, id orbit.BodyID, t0, dt float64, n int) ([]Point, error) {
	ps, err := Sample(sys, id, t0, dt, n, false)
	if err != nil {
		return nil, err
	}
	out := make([]Point, len(ps))
	for i, p := range ps {
		out[i] = Point{X: p.X, Z: p.Z}
	}
	return out, nil
}

// Crossings records the times a body passes its reference direction (+X
// from its parent) moving towards -Z. Successive crossings are one orbital
// period apart.
func Crossings(sys *orbit.System, id orbit.BodyID, t0, dt float64, n int) ([]float64, error) {
	ps, err := Sample(sys, id, t0, dt, n, true)
	if err != nil {
		return nil, err
	}
	var out []float64
	for i := 1; i < len(ps); i++ {
		prev, cur := ps[i-1], ps[i]
		if prev.Z > 0 && cur.Z <= 0 && cur.X > 0 {
			frac := prev.Z / (prev.Z - cur.Z)
			out = append(out, t0+(float64(i-1)+frac)*dt)
		}
	}
	return out, nil
}

// TraceToASCII draws points on a width x height grid with the origin marked.
func TraceToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minZ, maxZ := points[0].Z, points[0].Z
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minZ, maxZ = min(minZ, p.Z), max(maxZ, p.Z)
	}
	// keep the sun in view
	minX, maxX = min(minX, 0), max(maxX, 0)
	minZ, maxZ = min(minZ, 0), max(maxZ, 0)

	rangeX := maxX - minX
	rangeZ := maxZ - minZ
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	plot := func(x, z float64, r rune) {
		col := int((x - minX) / rangeX * float64(width-1))
		row := int((z - minZ) / rangeZ * float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = r
		}
	}

	for _, p := range points {
		plot(p.X, p.Z, '•')
	}
	plot(0, 0, '☉')

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
