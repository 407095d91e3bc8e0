// Package visibility builds the boundary of the region visible from a point
// by casting rays over a full turn and compressing the hits into a minimal
// ordered polygon.
package visibility

import (
	"errors"

	"seehuhn.de/go/geom/vec"
)

// Point represents a 2D point or direction in scene space.
type Point = vec.Vec2

var (
	// ErrInvalidConfig is returned when sampling parameters are out of range.
	ErrInvalidConfig = errors.New("invalid sampling config")

	// ErrBufferTooSmall is returned when the caller-provided buffer cannot
	// hold the worst-case number of boundary points for a config.
	ErrBufferTooSmall = errors.New("boundary buffer too small")
)

// RayResult is the outcome of a single directional cast from an origin.
// A miss still carries a valid end point at maximum range.
type RayResult struct {
	Hit    bool
	Point  Point
	Normal Point // only meaningful when Hit is set
}

// Hit builds a RayResult for a ray that struck a surface.
func Hit(point, normal Point) RayResult {
	return RayResult{Hit: true, Point: point, Normal: normal}
}

// Miss builds a RayResult for a ray that left the scene at maximum range.
func Miss(origin, dir Point, maxRange float64) RayResult {
	return RayResult{Point: origin.Add(dir.Mul(maxRange))}
}

// RayCaster answers occlusion queries for the sampler.
type RayCaster interface {
	// CastRay casts a ray from origin along the unit vector dir and reports
	// the closest hit within maxRange.
	CastRay(origin, dir Point, maxRange float64) RayResult
}

// RayCasterFunc adapts an ordinary function to the RayCaster interface.
type RayCasterFunc func(origin, dir Point, maxRange float64) RayResult

// CastRay calls f(origin, dir, maxRange).
func (f RayCasterFunc) CastRay(origin, dir Point, maxRange float64) RayResult {
	return f(origin, dir, maxRange)
}

// Config holds the immutable per-run sampling parameters.
type Config struct {
	RayCount       int     // rays over the full turn
	Range          float64 // maximum ray length
	SkipFactor     int     // consecutive misses merged into one boundary point
	IterationCount int     // bisection steps at a detected discontinuity
	Tilt           float64 // accepted for compatibility, not applied to the turn

	// CurveSamples bounds how many curve vertices one discontinuity may emit
	// during refinement. Zero behaves like one: refinement stops at the first
	// midpoint whose normal matches neither neighbouring ray.
	CurveSamples int

	// Trace, when set, is called with the end point of every ray cast,
	// bisection casts included. Used for debug overlays.
	Trace func(origin, end Point)
}

// Polygon is the ordered boundary of the visible region. Points are in scene
// space, ordered by increasing angle from 0, and the last point connects back
// to the first. Points aliases the Buffer the polygon was sampled into.
type Polygon struct {
	Points []Point
	Count  int
}

// Degenerate reports whether the polygon has too few points to enclose an
// area. Callers should treat a degenerate polygon as "no visible region".
func (p Polygon) Degenerate() bool {
	return p.Count < 3
}

// Buffer is a reusable, caller-owned arena for boundary points. A Buffer
// must not be shared by samplers running at the same time.
type Buffer struct {
	points []Point
}

// NewBuffer allocates a buffer large enough for any sampling pass with cfg.
func NewBuffer(cfg Config) *Buffer {
	return &Buffer{points: make([]Point, cfg.Capacity())}
}

// Len returns the number of slots in the buffer.
func (b *Buffer) Len() int {
	return len(b.points)
}
