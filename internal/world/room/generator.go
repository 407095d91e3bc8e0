// Package room generates random occluder scenes: a walled room scattered
// with rectangular pillars, round columns and lights.
package room

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"chosenoffset.com/lightcaster/internal/world/maploader"
)

const (
	floorKey = "."
	wallKey  = "#"

	// placementAttempts bounds the retries for each pillar, circle or light
	placementAttempts = 50
)

// ErrNoSpace is returned when the room has no open tile for the spawn point.
var ErrNoSpace = errors.New("no open tile for spawn")

// GeneratorConfig holds configuration for scene generation
type GeneratorConfig struct {
	Width         int     // Room width in tiles, including border walls
	Height        int     // Room height in tiles, including border walls
	TileSize      int     // Tile size in pixels
	Pillars       int     // Rectangular pillars to try to place
	MaxPillarSize int     // Largest pillar side in tiles
	Circles       int     // Round columns to try to place
	MinRadius     float64 // Smallest column radius in pixels
	MaxRadius     float64 // Largest column radius in pixels
	Lights        int     // Static lights besides the spawn
	Seed          int64   // Random seed (0 = use current time)
}

// DefaultConfig returns a mid-sized room
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Width:         20,
		Height:        15,
		TileSize:      32,
		Pillars:       8,
		MaxPillarSize: 3,
		Circles:       4,
		MinRadius:     6,
		MaxRadius:     14,
		Lights:        2,
	}
}

// Generator handles random scene generation
type Generator struct {
	config   GeneratorConfig
	rng      *rand.Rand
	tiles    [][]byte
	occupied map[[2]int]bool // tiles holding a pillar, a column or a light
	circles  []maploader.CircleData
}

// NewGenerator creates a new scene generator
func NewGenerator(config GeneratorConfig) *Generator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Generate creates a new random scene
func (g *Generator) Generate() (*maploader.Map, error) {
	c := g.config
	if c.Width < 3 || c.Height < 3 {
		return nil, fmt.Errorf("room must be at least 3x3 tiles, got %dx%d", c.Width, c.Height)
	}

	g.tiles = make([][]byte, c.Height)
	g.occupied = make(map[[2]int]bool)
	g.circles = nil
	for y := range g.tiles {
		g.tiles[y] = make([]byte, c.Width)
		for x := range g.tiles[y] {
			border := x == 0 || y == 0 || x == c.Width-1 || y == c.Height-1
			if border {
				g.tiles[y][x] = wallKey[0]
			} else {
				g.tiles[y][x] = floorKey[0]
			}
		}
	}

	// Spawn first so the player light always has room
	spawnX, spawnY, ok := g.findOpenTile()
	if !ok {
		return nil, ErrNoSpace
	}
	g.occupied[[2]int{spawnX, spawnY}] = true

	for i := 0; i < c.Pillars; i++ {
		g.tryPlacePillar()
	}
	for i := 0; i < c.Circles; i++ {
		g.tryPlaceCircle()
	}

	var lights []maploader.LightData
	for i := 0; i < c.Lights; i++ {
		x, y, ok := g.findOpenTile()
		if !ok {
			break
		}
		g.occupied[[2]int{x, y}] = true
		cx, cy := g.tileCenter(x, y)
		lights = append(lights, maploader.LightData{X: cx, Y: cy, Color: g.randomColor()})
	}

	rows := make([]string, c.Height)
	for y, row := range g.tiles {
		rows[y] = string(row)
	}

	spawnCX, spawnCY := g.tileCenter(spawnX, spawnY)
	data := &maploader.MapData{
		Name:        fmt.Sprintf("Generated %dx%d", c.Width, c.Height),
		Width:       c.Width,
		Height:      c.Height,
		TileSize:    c.TileSize,
		PlayerSpawn: maploader.SpawnPoint{X: spawnCX, Y: spawnCY},
		Legend: map[string]maploader.TileDefinition{
			floorKey: {Name: "floor", Properties: map[string]interface{}{"blocks_sight": false}},
			wallKey:  {Name: "wall", Properties: map[string]interface{}{"blocks_sight": true}},
		},
		Tiles:   rows,
		Circles: g.circles,
		Lights:  lights,
	}
	return maploader.NewMap(data)
}

// tryPlacePillar places a random rectangle of wall tiles inside the border.
// Pillars keep a one-tile gap from occupied tiles so lights are never boxed in.
func (g *Generator) tryPlacePillar() bool {
	c := g.config
	maxSize := max(1, c.MaxPillarSize)
	for attempt := 0; attempt < placementAttempts; attempt++ {
		w := 1 + g.rng.Intn(maxSize)
		h := 1 + g.rng.Intn(maxSize)
		if w > c.Width-2 || h > c.Height-2 {
			continue
		}
		x := 1 + g.rng.Intn(c.Width-1-w)
		y := 1 + g.rng.Intn(c.Height-1-h)
		if !g.canPlace(x-1, y-1, w+2, h+2) {
			continue
		}
		for dy := 0; dy < h; dy++ {
			for dx := 0; dx < w; dx++ {
				g.tiles[y+dy][x+dx] = wallKey[0]
			}
		}
		return true
	}
	return false
}

// tryPlaceCircle places a round column centered on an open tile whose
// neighbors are open too.
func (g *Generator) tryPlaceCircle() bool {
	c := g.config
	for attempt := 0; attempt < placementAttempts; attempt++ {
		x, y, ok := g.findOpenTile()
		if !ok {
			return false
		}
		if !g.canPlace(x-1, y-1, 3, 3) {
			continue
		}
		r := c.MinRadius
		if c.MaxRadius > c.MinRadius {
			r += g.rng.Float64() * (c.MaxRadius - c.MinRadius)
		}
		// Stay inside the 3x3 block of open tiles.
		r = math.Min(r, 1.5*float64(c.TileSize)-1)
		if r <= 0 {
			return false
		}

		cx, cy := g.tileCenter(x, y)
		g.circles = append(g.circles, maploader.CircleData{X: cx, Y: cy, Radius: r})
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				g.occupied[[2]int{x + dx, y + dy}] = true
			}
		}
		return true
	}
	return false
}

// canPlace reports whether every tile in the rectangle is open floor.
func (g *Generator) canPlace(x, y, w, h int) bool {
	for ty := y; ty < y+h; ty++ {
		for tx := x; tx < x+w; tx++ {
			if ty < 0 || ty >= len(g.tiles) || tx < 0 || tx >= len(g.tiles[ty]) {
				return false
			}
			if g.tiles[ty][tx] != floorKey[0] || g.occupied[[2]int{tx, ty}] {
				return false
			}
		}
	}
	return true
}

// findOpenTile picks a random open, unoccupied floor tile. It falls back to a
// scan when random picks keep failing.
func (g *Generator) findOpenTile() (int, int, bool) {
	c := g.config
	for attempt := 0; attempt < placementAttempts; attempt++ {
		x := 1 + g.rng.Intn(c.Width-2)
		y := 1 + g.rng.Intn(c.Height-2)
		if g.canPlace(x, y, 1, 1) {
			return x, y, true
		}
	}
	for y := 1; y < c.Height-1; y++ {
		for x := 1; x < c.Width-1; x++ {
			if g.canPlace(x, y, 1, 1) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

func (g *Generator) tileCenter(x, y int) (float64, float64) {
	ts := float64(g.config.TileSize)
	return float64(x)*ts + ts/2, float64(y)*ts + ts/2
}

func (g *Generator) randomColor() string {
	// Bright, slightly tinted lights
	var b strings.Builder
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "%02x", 160+g.rng.Intn(96))
	}
	return b.String()
}
