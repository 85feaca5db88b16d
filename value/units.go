/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package value

import (
	"math"
	"strings"
)

// Dimension names a family of mutually convertible units.
type Dimension string

const (
	Length     Dimension = "length"
	Angle      Dimension = "angle"
	Time       Dimension = "time"
	Frequency  Dimension = "frequency"
	Resolution Dimension = "resolution"
	Percentage Dimension = "percentage"
)

type unitInfo struct {
	dim Dimension
	// factor converts one of this unit into the dimension's base unit.
	factor float64
}

// Base units: mm, deg, ms, hz, dppx.
var units = map[string]unitInfo{
	"mm": {Length, 1},
	"cm": {Length, 10},
	"q":  {Length, 0.25},
	"in": {Length, 25.4},
	"pt": {Length, 25.4 / 72},
	"pc": {Length, 25.4 / 6},
	"px": {Length, 25.4 / 96},

	"deg":  {Angle, 1},
	"grad": {Angle, 0.9},
	"rad":  {Angle, 180 / math.Pi},
	"turn": {Angle, 360},

	"ms": {Time, 1},
	"s":  {Time, 1000},

	"hz":  {Frequency, 1},
	"khz": {Frequency, 1000},

	"dppx": {Resolution, 1},
	"dpi":  {Resolution, 1.0 / 96},
	"dpcm": {Resolution, 2.54 / 96},

	"%": {Percentage, 1},
}

// Relative units have no conversion to any other unit.
var relativeUnits = []string{"em", "ex", "rem", "ch", "vw", "vh", "vmin", "vmax", "fr"}

// KnownUnits returns every unit the scanner and compressor recognise.
func KnownUnits() []string {
	out := make([]string, 0, len(units)+len(relativeUnits))
	for u := range units {
		out = append(out, u)
	}
	return append(out, relativeUnits...)
}

// IsKnownUnit reports whether unit is a recognised CSS unit.
func IsKnownUnit(unit string) bool {
	unit = strings.ToLower(unit)
	if _, ok := units[unit]; ok {
		return true
	}
	for _, u := range relativeUnits {
		if u == unit {
			return true
		}
	}
	return false
}

// DimensionOf returns the dimension of unit, if it is convertible.
func DimensionOf(unit string) (Dimension, bool) {
	info, ok := units[strings.ToLower(unit)]
	return info.dim, ok
}

// Comparable reports whether numbers in units a and b can be combined
// without losing meaning.
func Comparable(a, b string) bool {
	if a == "" || b == "" || a == b {
		return true
	}
	da, okA := DimensionOf(a)
	db, okB := DimensionOf(b)
	return okA && okB && da == db
}

// Convert expresses v, measured in from, in the unit to.
func Convert(v float64, from, to string) (float64, bool) {
	from, to = strings.ToLower(from), strings.ToLower(to)
	if from == to {
		return v, true
	}
	fi, okF := units[from]
	ti, okT := units[to]
	if !okF || !okT || fi.dim != ti.dim {
		return v, false
	}
	return v * fi.factor / ti.factor, true
}

func roundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
