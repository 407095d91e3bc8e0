package shadows

import (
	"math"

	"chosenoffset.com/lightcaster/internal/core/visibility"
)

// Scene is the set of occluders a light can be blocked by. It implements
// visibility.RayCaster.
type Scene struct {
	Segments []Segment
	Circles  []Circle
}

// CastRay finds the closest occluder hit along dir within maxRange. The
// reported normal always faces back toward the ray origin.
func (s *Scene) CastRay(origin, dir Point, maxRange float64) visibility.RayResult {
	closestDist := maxRange
	var closestPoint, closestNormal Point
	hit := false

	for _, seg := range s.Segments {
		if ok, dist, point := raySegmentIntersection(origin, dir.X, dir.Y, seg); ok && dist <= closestDist {
			closestDist = dist
			closestPoint = point
			closestNormal = seg.Normal
			hit = true
		}
	}

	for _, c := range s.Circles {
		if ok, dist := rayCircleIntersection(origin, dir, c); ok && dist <= closestDist {
			closestDist = dist
			closestPoint = origin.Add(dir.Mul(dist))
			closestNormal = closestPoint.Sub(c.Center).Mul(1 / c.Radius)
			hit = true
		}
	}

	if !hit {
		return visibility.Miss(origin, dir, maxRange)
	}
	if closestNormal.Dot(dir) > 0 {
		closestNormal = closestNormal.Mul(-1)
	}
	return visibility.Hit(closestPoint, closestNormal)
}

// raySegmentIntersection checks if a ray intersects a line segment
// Returns: (intersects bool, distance float64, intersection point Point)
func raySegmentIntersection(origin Point, dx, dy float64, seg Segment) (bool, float64, Point) {
	// Ray: P = origin + t * (dx, dy) for t >= 0
	// Segment: Q = seg.A + u * (seg.B - seg.A) for 0 <= u <= 1
	segDX := seg.B.X - seg.A.X
	segDY := seg.B.Y - seg.A.Y

	denominator := dx*segDY - dy*segDX
	if math.Abs(denominator) < 1e-10 {
		// Ray and segment are parallel
		return false, 0, Point{}
	}

	diffX := seg.A.X - origin.X
	diffY := seg.A.Y - origin.Y

	t := (diffX*segDY - diffY*segDX) / denominator
	u := (diffX*dy - diffY*dx) / denominator

	if u >= 0 && u <= 1 && t >= 0 {
		intersectionPoint := Point{
			X: origin.X + t*dx,
			Y: origin.Y + t*dy,
		}
		return true, t, intersectionPoint
	}

	return false, 0, Point{}
}

// rayCircleIntersection returns the distance along a unit-length ray to the
// first crossing of the circle's outline. A ray starting inside the circle
// hits the far side.
func rayCircleIntersection(origin, dir Point, c Circle) (bool, float64) {
	oc := origin.Sub(c.Center)
	b := oc.Dot(dir)
	disc := b*b - (oc.Dot(oc) - c.Radius*c.Radius)
	if disc < 0 || c.Radius <= 0 {
		return false, 0
	}

	sq := math.Sqrt(disc)
	if t := -b - sq; t >= 0 {
		return true, t
	}
	if t := -b + sq; t >= 0 {
		return true, t
	}
	return false, 0
}
