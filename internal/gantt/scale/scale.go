// Package scale converts between calendar instants and horizontal pixel
// offsets for a chart with a fixed origin and a per-hour pixel density.
package scale

import (
	"math"
	"time"
)

// Scale maps time onto the chart's horizontal axis. The zero value is not
// usable; build one with New.
type Scale struct {
	Origin         time.Time
	PerHourSpacing float64
}

// New returns a Scale anchored at origin. A non-positive density falls back
// to one pixel per hour.
func New(origin time.Time, perHourSpacing float64) Scale {
	if perHourSpacing <= 0 {
		perHourSpacing = 1
	}
	return Scale{Origin: origin, PerHourSpacing: perHourSpacing}
}

// OriginFor returns the origin that places minDate exactly edgeSpacing
// pixels from the left edge of the chart.
func OriginFor(minDate time.Time, edgeSpacing, perHourSpacing float64) time.Time {
	s := New(minDate, perHourSpacing)
	return minDate.Add(-s.Duration(edgeSpacing))
}

// X returns the pixel offset of t from the origin.
func (s Scale) X(t time.Time) float64 {
	return Hours(s.Origin, t) * s.PerHourSpacing
}

// Width returns the pixel length of [start, end].
func (s Scale) Width(start, end time.Time) float64 {
	return Hours(start, end) * s.PerHourSpacing
}

// DateAt returns the instant at pixel offset x, rounded to whole seconds.
func (s Scale) DateAt(x float64) time.Time {
	return s.Origin.Add(s.Duration(x))
}

// Seconds converts a pixel distance to fractional seconds.
func (s Scale) Seconds(dx float64) float64 {
	return dx / s.PerHourSpacing * 3600
}

// Duration converts a pixel distance to a duration rounded to the nearest
// second. Rounding is symmetric, so Duration(-dx) == -Duration(dx).
func (s Scale) Duration(dx float64) time.Duration {
	return time.Duration(math.Round(s.Seconds(dx))) * time.Second
}

// CeilDuration converts a pixel distance to a duration rounded up to the next
// whole second.
func (s Scale) CeilDuration(dx float64) time.Duration {
	return time.Duration(math.Ceil(s.Seconds(dx))) * time.Second
}

// Shift moves t by the calendar equivalent of dx pixels.
func (s Scale) Shift(t time.Time, dx float64) time.Time {
	return t.Add(s.Duration(dx))
}

// Hours returns the fractional hours from a to b.
func Hours(a, b time.Time) float64 {
	return b.Sub(a).Hours()
}

// Round rounds v to the given number of decimal places. Pixel comparisons
// against chart edges go through Round to absorb float drift.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
