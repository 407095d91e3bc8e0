package shadows

// Grid is the tile occupancy wall outlines are extracted from.
type Grid interface {
	Size() (width, height int)
	BlocksSight(x, y int) bool
}

// CreateWallSegmentsFromGrid extracts the perimeter of every contiguous region
// of sight-blocking tiles and merges colinear edges, so a straight wall of any
// length becomes one segment with one exact normal.
func CreateWallSegmentsFromGrid(grid Grid, tileSize float64) []Segment {
	width, height := grid.Size()

	regions := findContiguousRegions(grid, width, height)

	var allSegments []Segment
	for _, region := range regions {
		allSegments = append(allSegments, extractPerimeterSegments(region, tileSize)...)
	}

	return mergeColinearSegments(allSegments)
}

// findContiguousRegions identifies all connected regions of sight-blocking tiles
func findContiguousRegions(grid Grid, width, height int) [][]Coord {
	visited := make(map[Coord]bool)
	var regions [][]Coord

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coord := Coord{X: x, Y: y}
			if visited[coord] || !grid.BlocksSight(x, y) {
				continue
			}

			region := floodFill(grid, coord, width, height, visited)
			if len(region) > 0 {
				regions = append(regions, region)
			}
		}
	}

	return regions
}

// floodFill performs BFS to find all connected sight-blocking tiles
func floodFill(grid Grid, start Coord, width, height int, visited map[Coord]bool) []Coord {
	var region []Coord
	queue := []Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		// 4-connected, no diagonals
		neighbors := []Coord{
			{X: current.X, Y: current.Y - 1},
			{X: current.X + 1, Y: current.Y},
			{X: current.X, Y: current.Y + 1},
			{X: current.X - 1, Y: current.Y},
		}

		for _, neighbor := range neighbors {
			if neighbor.X < 0 || neighbor.X >= width || neighbor.Y < 0 || neighbor.Y >= height {
				continue
			}
			if visited[neighbor] || !grid.BlocksSight(neighbor.X, neighbor.Y) {
				continue
			}

			visited[neighbor] = true
			queue = append(queue, neighbor)
		}
	}

	return region
}

// extractPerimeterSegments finds all exposed edges of a region. Edges wind
// clockwise in screen space (y down), so each normal points out of the region.
func extractPerimeterSegments(region []Coord, tileSize float64) []Segment {
	var segments []Segment

	regionSet := make(map[Coord]bool, len(region))
	for _, coord := range region {
		regionSet[coord] = true
	}

	edge := func(a, b Point, x, y int, edgeType string) Segment {
		return Segment{
			A:            a,
			B:            b,
			Normal:       edgeNormal(edgeType),
			TileX:        x,
			TileY:        y,
			TilesCovered: []Coord{{X: x, Y: y}},
			EdgeType:     edgeType,
		}
	}

	for _, coord := range region {
		x, y := coord.X, coord.Y
		left := float64(x) * tileSize
		top := float64(y) * tileSize
		right := left + tileSize
		bottom := top + tileSize

		if !regionSet[Coord{X: x, Y: y - 1}] {
			segments = append(segments, edge(Point{X: left, Y: top}, Point{X: right, Y: top}, x, y, EdgeTop))
		}
		if !regionSet[Coord{X: x + 1, Y: y}] {
			segments = append(segments, edge(Point{X: right, Y: top}, Point{X: right, Y: bottom}, x, y, EdgeRight))
		}
		if !regionSet[Coord{X: x, Y: y + 1}] {
			segments = append(segments, edge(Point{X: right, Y: bottom}, Point{X: left, Y: bottom}, x, y, EdgeBottom))
		}
		if !regionSet[Coord{X: x - 1, Y: y}] {
			segments = append(segments, edge(Point{X: left, Y: bottom}, Point{X: left, Y: top}, x, y, EdgeLeft))
		}
	}

	return segments
}

// mergeColinearSegments combines adjacent parallel segments into longer segments
func mergeColinearSegments(segments []Segment) []Segment {
	if len(segments) == 0 {
		return segments
	}

	merged := make([]bool, len(segments))
	var result []Segment

	for i := 0; i < len(segments); i++ {
		if merged[i] {
			continue
		}

		current := segments[i]
		merged[i] = true

		extended := true
		for extended {
			extended = false

			for j := 0; j < len(segments); j++ {
				if merged[j] || i == j {
					continue
				}

				if canMergeSegments(current, segments[j]) {
					current = mergeSegments(current, segments[j])
					merged[j] = true
					extended = true
					break
				}
			}
		}

		result = append(result, current)
	}

	return result
}

const mergeEpsilon = 0.001

// canMergeSegments checks if two segments are adjacent and colinear
func canMergeSegments(seg1, seg2 Segment) bool {
	if seg1.EdgeType != seg2.EdgeType {
		return false
	}

	switch seg1.EdgeType {
	case EdgeTop, EdgeBottom:
		if abs(seg1.A.Y-seg2.A.Y) > mergeEpsilon {
			return false
		}
	case EdgeLeft, EdgeRight:
		if abs(seg1.A.X-seg2.A.X) > mergeEpsilon {
			return false
		}
	default:
		return false
	}

	// One must end where the other begins
	return near(seg1.B, seg2.A) || near(seg2.B, seg1.A)
}

// mergeSegments combines two adjacent colinear segments into one, keeping
// the winding of the edge type.
func mergeSegments(seg1, seg2 Segment) Segment {
	result := seg1

	switch seg1.EdgeType {
	case EdgeTop, EdgeBottom:
		minX := min(seg1.A.X, seg1.B.X, seg2.A.X, seg2.B.X)
		maxX := max(seg1.A.X, seg1.B.X, seg2.A.X, seg2.B.X)
		if seg1.EdgeType == EdgeTop {
			result.A.X, result.B.X = minX, maxX
		} else {
			result.A.X, result.B.X = maxX, minX
		}

	case EdgeLeft, EdgeRight:
		minY := min(seg1.A.Y, seg1.B.Y, seg2.A.Y, seg2.B.Y)
		maxY := max(seg1.A.Y, seg1.B.Y, seg2.A.Y, seg2.B.Y)
		if seg1.EdgeType == EdgeRight {
			result.A.Y, result.B.Y = minY, maxY
		} else {
			result.A.Y, result.B.Y = maxY, minY
		}
	}

	result.TilesCovered = append(append([]Coord(nil), seg1.TilesCovered...), seg2.TilesCovered...)

	return result
}

func near(a, b Point) bool {
	return abs(a.X-b.X) < mergeEpsilon && abs(a.Y-b.Y) < mergeEpsilon
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
