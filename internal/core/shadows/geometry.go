package shadows

import "math"

// IsFacingPoint checks if a segment is facing towards a given point
func IsFacingPoint(seg Segment, point Point) bool {
	return point.Sub(seg.A).Dot(seg.Normal) > 0
}

// PointInPolygon tests if a point is inside a polygon using ray casting algorithm
func PointInPolygon(point Point, polygon []Point) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return b.Sub(a).Length()
}

// PolygonArea returns the signed shoelace area of a closed polygon. It is
// positive when the points wind counter-clockwise in a y-up frame.
func PolygonArea(polygon []Point) float64 {
	if len(polygon) < 3 {
		return 0
	}
	sum := 0.0
	j := len(polygon) - 1
	for i := range polygon {
		sum += polygon[j].X*polygon[i].Y - polygon[i].X*polygon[j].Y
		j = i
	}
	return sum / 2
}

// CircleArea is the area of a disc of radius r, the upper bound for any
// visibility polygon sampled with that range.
func CircleArea(r float64) float64 {
	return math.Pi * r * r
}
