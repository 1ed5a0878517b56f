// Package storage tabulates body positions over time and persists them.
//
// An [Ephemeris] is written as CSV (one line per body per sample) or JSON.
// A [Store] keeps saved runs under a base directory:
//
//	<base>/ephemeris_<nanos>/metadata.json
//	<base>/ephemeris_<nanos>/ephemeris.csv
package storage
