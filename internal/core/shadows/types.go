package shadows

import "chosenoffset.com/lightcaster/internal/core/visibility"

// Point represents a 2D point in space
type Point = visibility.Point

// Coord represents a tile coordinate
type Coord struct {
	X, Y int
}

// Edge types of a wall segment, named after the side of the tile they bound.
const (
	EdgeTop    = "top"
	EdgeRight  = "right"
	EdgeBottom = "bottom"
	EdgeLeft   = "left"
)

// Segment represents a wall segment that can cast shadows
type Segment struct {
	A, B         Point
	Normal       Point   // Unit normal pointing out of the wall
	TileX        int     // Grid coordinates of the first tile this segment belongs to
	TileY        int
	TilesCovered []Coord // All tiles this segment covers (for merged segments)
	EdgeType     string  // EdgeTop, EdgeRight, EdgeBottom or EdgeLeft
}

// Circle is a round occluder. Its surface normal changes continuously, so
// every ray that hits it reports a different normal.
type Circle struct {
	Center Point
	Radius float64
}

// edgeNormal returns the exact outward unit normal for an axis-aligned edge.
func edgeNormal(edgeType string) Point {
	switch edgeType {
	case EdgeTop:
		return Point{X: 0, Y: -1}
	case EdgeBottom:
		return Point{X: 0, Y: 1}
	case EdgeLeft:
		return Point{X: -1, Y: 0}
	case EdgeRight:
		return Point{X: 1, Y: 0}
	}
	return Point{}
}

// NewSegment builds a free-standing wall from a to b. The normal is
// (dy, -dx) normalized, the same winding CreateWallSegmentsFromGrid uses.
func NewSegment(a, b Point) Segment {
	d := b.Sub(a)
	n := Point{X: d.Y, Y: -d.X}
	if l := n.Length(); l > 0 {
		n = n.Mul(1 / l)
	}
	return Segment{A: a, B: b, Normal: n}
}
