// Package mask rasterizes visibility polygons into coverage images without a
// GPU. Pixel (0, 0) of a mask corresponds to the lower-left corner of its
// bounds in scene space; both axes keep the scene's orientation.
package mask

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"

	"chosenoffset.com/lightcaster/internal/core/visibility"
)

var (
	// ErrEmptyBounds is returned when the mask would have no pixels.
	ErrEmptyBounds = errors.New("empty mask bounds")

	// ErrInvalidScale is returned for a non-positive or non-finite scale.
	ErrInvalidScale = errors.New("invalid mask scale")
)

// Bounds returns the smallest rectangle containing every polygon vertex.
// A polygon with no points yields the zero rectangle.
func Bounds(poly visibility.Polygon) rect.Rect {
	if poly.Count == 0 {
		return rect.Rect{}
	}
	first := poly.Points[0]
	b := rect.Rect{LLx: first.X, LLy: first.Y, URx: first.X, URy: first.Y}
	for _, p := range poly.Points[1:poly.Count] {
		b.LLx = math.Min(b.LLx, p.X)
		b.LLy = math.Min(b.LLy, p.Y)
		b.URx = math.Max(b.URx, p.X)
		b.URy = math.Max(b.URy, p.Y)
	}
	return b
}

// Path returns the polygon outline as a single closed subpath.
func Path(poly visibility.Polygon) *path.Data {
	p := &path.Data{}
	if poly.Count == 0 {
		return p
	}
	p = p.MoveTo(poly.Points[0])
	for _, pt := range poly.Points[1:poly.Count] {
		p = p.LineTo(pt)
	}
	return p.Close()
}

// Transform maps scene coordinates inside bounds to mask pixels.
func Transform(bounds rect.Rect, scale float64) matrix.Matrix {
	return matrix.Matrix{scale, 0, 0, scale, -scale * bounds.LLx, -scale * bounds.LLy}
}

// Size returns the pixel dimensions of a mask covering bounds at scale.
func Size(bounds rect.Rect, scale float64) (width, height int) {
	width = int(math.Ceil((bounds.URx - bounds.LLx) * scale))
	height = int(math.Ceil((bounds.URy - bounds.LLy) * scale))
	return width, height
}

// New allocates an empty mask covering bounds at scale.
func New(bounds rect.Rect, scale float64) (*image.Alpha, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	w, h := Size(bounds, scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrEmptyBounds, w, h)
	}
	return image.NewAlpha(image.Rect(0, 0, w, h)), nil
}

// Rasterize fills poly into a new mask covering bounds at scale. Pixels
// hold the fraction of their area inside the polygon.
func Rasterize(poly visibility.Polygon, bounds rect.Rect, scale float64) (*image.Alpha, error) {
	dst, err := New(bounds, scale)
	if err != nil {
		return nil, err
	}
	Draw(dst, Path(poly), Transform(bounds, scale))
	return dst, nil
}

// Draw composites the filled path over dst after applying m. Drawing several
// polygons into one mask produces their union.
func Draw(dst *image.Alpha, p *path.Data, m matrix.Matrix) {
	size := dst.Bounds().Size()
	z := vector.NewRasterizer(size.X, size.Y)

	apply := func(i int) (float32, float32) {
		v := p.Coords[i]
		x := m[0]*v.X + m[2]*v.Y + m[4]
		y := m[1]*v.X + m[3]*v.Y + m[5]
		return float32(x), float32(y)
	}

	idx := 0
	open := false
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(apply(idx))
			idx++
			open = true
		case path.CmdLineTo:
			z.LineTo(apply(idx))
			idx++
		case path.CmdQuadTo:
			bx, by := apply(idx)
			cx, cy := apply(idx + 1)
			z.QuadTo(bx, by, cx, cy)
			idx += 2
		case path.CmdCubeTo:
			bx, by := apply(idx)
			cx, cy := apply(idx + 1)
			dx, dy := apply(idx + 2)
			z.CubeTo(bx, by, cx, cy, dx, dy)
			idx += 3
		case path.CmdClose:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}

	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
}

// Coverage returns the covered area of a mask in pixels.
func Coverage(img *image.Alpha) float64 {
	total := 0
	for _, a := range img.Pix {
		total += int(a)
	}
	return float64(total) / 255
}

// SavePNG writes the mask to a PNG file, creating parent directories.
func SavePNG(img *image.Alpha, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mask file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode mask: %w", err)
	}
	return file.Close()
}
