// Package analysis samples body motion over time and extracts numbers from
// it.
//
//   - [Sample]: positions of one body at evenly spaced times
//   - [DominantPeriod]: strongest period of a signal via FFT
//   - [EstimatePeriod]: orbital period of a body recovered from its motion
//   - [Crossings]: times a body passes its reference direction
//   - [Distances] and [LightTime]: separation between two bodies
//   - [Trace] and [TraceToASCII]: top-down path of a body
//
// # Period Recovery
//
// The X offset of a body from its parent is a cosine of the orbital angle, so
// its spectrum has a single peak at the orbital frequency:
//
//	p, err := analysis.EstimatePeriod(sys, earth, 0, 1, 4096)
//	// p is close to 365
package analysis
