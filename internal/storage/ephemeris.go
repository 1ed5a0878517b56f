package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/solarsim/internal/orbit"
)

var ErrBadRange = errors.New("storage: invalid time range")

// MaxRows bounds a single table.
const MaxRows = 1_000_000

// Position is one body at one instant, in km and degrees.
type Position struct {
	Body string  `json:"body"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Spin float64 `json:"spin"`
}

type Row struct {
	Time      float64    `json:"time"`
	Positions []Position `json:"positions"`
}

// Ephemeris is a table of every body's position at evenly spaced times.
type Ephemeris struct {
	Start  float64  `json:"start"`
	End    float64  `json:"end"`
	Step   float64  `json:"step"`
	Bodies []string `json:"bodies"`
	Rows   []Row    `json:"rows"`
}

// Tabulate evaluates sys at start, start+step, ... up to and including end.
// A negative step walks backwards. sys is left at the last row's time.
func Tabulate(sys *orbit.System, start, end, step float64) (*Ephemeris, error) {
	n, err := RowCount(start, end, step)
	if err != nil {
		return nil, err
	}

	e := &Ephemeris{Start: start, End: end, Step: step, Rows: make([]Row, 0, n)}
	for _, b := range sys.Bodies() {
		e.Bodies = append(e.Bodies, b.Name)
	}

	for i := 0; i < n; i++ {
		t := start + float64(i)*step
		sys.CalculatePositions(t)
		row := Row{Time: t, Positions: make([]Position, 0, sys.Len())}
		for _, p := range sys.Poses() {
			row.Positions = append(row.Positions, Position{
				Body: p.Name,
				X:    p.Position.X,
				Y:    p.Position.Y,
				Z:    p.Position.Z,
				Spin: p.SpinAngle,
			})
		}
		e.Rows = append(e.Rows, row)
	}
	return e, nil
}

// RowCount is the number of samples from start to end inclusive. Non-finite
// bounds, a zero step, a step pointing away from end and ranges of more
// than MaxRows samples are rejected with ErrBadRange.
func RowCount(start, end, step float64) (int, error) {
	bad := func() (int, error) {
		return 0, fmt.Errorf("%w: %g..%g step %g", ErrBadRange, start, end, step)
	}
	if !finite(start) || !finite(end) || !finite(step) || step == 0 {
		return bad()
	}
	span := (end - start) / step
	if !finite(span) || span < 0 || span+1 > MaxRows {
		return bad()
	}
	return int(math.Floor(span+1e-9)) + 1, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

var csvHeader = []string{"time", "body", "x", "y", "z", "spin"}

// WriteCSV writes one line per body per row.
func WriteCSV(w io.Writer, e *Ephemeris) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range e.Rows {
		for _, p := range row.Positions {
			rec := []string{
				format(row.Time),
				p.Body,
				format(p.X),
				format(p.Y),
				format(p.Z),
				format(p.Spin),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func format(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// ReadCSV parses the output of WriteCSV. Step and End are inferred from the
// row times.
func ReadCSV(r io.Reader) (*Ephemeris, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("storage: empty ephemeris")
	}

	e := &Ephemeris{}
	seen := make(map[string]bool)
	for i, rec := range records[1:] {
		vals := make([]float64, 0, 5)
		for _, idx := range []int{0, 2, 3, 4, 5} {
			v, err := strconv.ParseFloat(rec[idx], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: line %d: %w", i+2, err)
			}
			vals = append(vals, v)
		}

		t := vals[0]
		if len(e.Rows) == 0 || e.Rows[len(e.Rows)-1].Time != t {
			e.Rows = append(e.Rows, Row{Time: t})
		}
		last := &e.Rows[len(e.Rows)-1]
		last.Positions = append(last.Positions, Position{
			Body: rec[1], X: vals[1], Y: vals[2], Z: vals[3], Spin: vals[4],
		})
		if !seen[rec[1]] {
			seen[rec[1]] = true
			e.Bodies = append(e.Bodies, rec[1])
		}
	}

	if len(e.Rows) > 0 {
		e.Start = e.Rows[0].Time
		e.End = e.Rows[len(e.Rows)-1].Time
	}
	if len(e.Rows) > 1 {
		e.Step = e.Rows[1].Time - e.Rows[0].Time
	}
	return e, nil
}

func WriteJSON(w io.Writer, e *Ephemeris) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// Series extracts one coordinate of one body across all rows.
func (e *Ephemeris) Series(body string, coord func(Position) float64) ([]float64, error) {
	out := make([]float64, 0, len(e.Rows))
	for _, row := range e.Rows {
		found := false
		for _, p := range row.Positions {
			if p.Body == body {
				out = append(out, coord(p))
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("storage: body %q missing at t=%g", body, row.Time)
		}
	}
	return out, nil
}
