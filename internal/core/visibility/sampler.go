package visibility

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// missNormal classifies rays that hit nothing. Surface normals are lifted
// into the XY plane, so the Z axis is free to mark the miss state.
var missNormal = mgl64.Vec3{0, 0, -1}

// Validate checks the sampling parameters before any ray is cast.
func (c Config) Validate() error {
	if c.RayCount <= 0 {
		return fmt.Errorf("%w: ray count must be positive, got %d", ErrInvalidConfig, c.RayCount)
	}
	if !(c.Range > 0) || math.IsInf(c.Range, 1) {
		return fmt.Errorf("%w: range must be positive and finite, got %v", ErrInvalidConfig, c.Range)
	}
	if c.SkipFactor < 0 {
		return fmt.Errorf("%w: skip factor must not be negative, got %d", ErrInvalidConfig, c.SkipFactor)
	}
	if c.IterationCount < 0 {
		return fmt.Errorf("%w: iteration count must not be negative, got %d", ErrInvalidConfig, c.IterationCount)
	}
	if c.CurveSamples < 0 {
		return fmt.Errorf("%w: curve samples must not be negative, got %d", ErrInvalidConfig, c.CurveSamples)
	}
	return nil
}

// DeltaAngle returns the angular step between two base rays.
func (c Config) DeltaAngle() float64 {
	return 2 * math.Pi / float64(c.RayCount)
}

// Capacity returns the number of boundary slots a pass may touch. After the
// first ray, each ray advances the cursor once for batching plus once per
// curve sample emitted during refinement.
func (c Config) Capacity() int {
	return max(3, (1+c.curveSamples())*c.RayCount)
}

func (c Config) curveSamples() int {
	return max(1, c.CurveSamples)
}

// Direction returns the unit direction of a ray cast at angle theta.
func Direction(theta float64) Point {
	return Point{X: math.Cos(theta), Y: math.Sin(theta)}
}

// sampler carries the per-call state shared by the base scan and refinement.
type sampler struct {
	origin Point
	cfg    Config
	caster RayCaster
	casts  int
}

func (s *sampler) cast(theta float64) (RayResult, mgl64.Vec3) {
	res := s.caster.CastRay(s.origin, Direction(theta), s.cfg.Range)
	s.casts++
	if s.cfg.Trace != nil {
		s.cfg.Trace(s.origin, res.Point)
	}
	return res, classify(res)
}

// classify maps a ray result onto the value compared when looking for
// discontinuities. Comparisons are exact.
func classify(r RayResult) mgl64.Vec3 {
	if !r.Hit {
		return missNormal
	}
	return mgl64.Vec3{r.Normal.X, r.Normal.Y, 0}
}

// Sample casts cfg.RayCount rays around origin and writes the compressed
// visibility boundary into buf. A nil buf allocates a fresh one. The returned
// polygon aliases buf and is valid until buf is sampled into again.
func Sample(origin Point, cfg Config, caster RayCaster, buf *Buffer) (Polygon, error) {
	poly, _, err := sample(origin, cfg, caster, buf)
	return poly, err
}

// Stats describes the work done by one sampling pass.
type Stats struct {
	Casts    int // rays cast, refinement casts included
	Vertices int // boundary points emitted
}

// SampleWithStats is Sample, also reporting how many rays were cast.
func SampleWithStats(origin Point, cfg Config, caster RayCaster, buf *Buffer) (Polygon, Stats, error) {
	return sample(origin, cfg, caster, buf)
}

func sample(origin Point, cfg Config, caster RayCaster, buf *Buffer) (Polygon, Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Polygon{}, Stats{}, err
	}
	if caster == nil {
		return Polygon{}, Stats{}, fmt.Errorf("%w: nil ray caster", ErrInvalidConfig)
	}
	if buf == nil {
		buf = NewBuffer(cfg)
	} else if buf.Len() < cfg.Capacity() {
		return Polygon{}, Stats{}, fmt.Errorf("%w: have %d slots, need %d", ErrBufferTooSmall, buf.Len(), cfg.Capacity())
	}

	s := &sampler{origin: origin, cfg: cfg, caster: caster}
	delta := cfg.DeltaAngle()
	pts := buf.points

	// The first ray has nothing to compare against and is kept verbatim.
	first, normalBefore := s.cast(0)
	pts[0] = first.Point

	var slopeBefore mgl64.Vec3
	c := 0
	skips := 0

	for i := 1; i < cfg.RayCount; i++ {
		theta := float64(i) * delta
		res, normalNow := s.cast(theta)
		end := res.Point

		slopeNow := normalNow.Sub(normalBefore)
		if normalNow != normalBefore {
			c, end = s.refine(pts, c, theta-delta, theta, normalBefore, normalNow, end)
		}

		if slopeNow != slopeBefore {
			c++
		} else if !res.Hit {
			if skips < cfg.SkipFactor {
				skips++
			} else {
				skips = 0
				c++
			}
		}

		slopeBefore = slopeNow
		normalBefore = normalNow
		pts[c] = end
	}

	count := c + 1
	return Polygon{Points: pts[:count], Count: count}, Stats{Casts: s.casts, Vertices: count}, nil
}

// refine bisects the angular interval [lo, hi] in which the surface normal
// changed from before to now. Midpoints still on the earlier surface replace
// the point at the cursor, midpoints on the later surface replace the pending
// end point, and midpoints on neither are curve samples that advance the
// cursor. It returns the updated cursor and pending end point.
func (s *sampler) refine(pts []Point, c int, lo, hi float64, before, now mgl64.Vec3, end Point) (int, Point) {
	curves := 0
	for i := 0; i < s.cfg.IterationCount; i++ {
		mid := (lo + hi) / 2
		res, normal := s.cast(mid)

		switch normal {
		case before:
			pts[c] = res.Point
			lo = mid
		case now:
			end = res.Point
			hi = mid
		default:
			c++
			pts[c] = res.Point
			curves++
			if curves >= s.cfg.curveSamples() {
				return c, end
			}
			// Keep chasing the break between this sample and the current ray.
			before = normal
			lo = mid
		}
	}
	return c, end
}
