// Package maploader loads occluder scenes from JSON tile maps.
package maploader

import (
	"encoding/json"
	"fmt"
	"os"

	"chosenoffset.com/lightcaster/internal/core/shadows"
)

// SpawnPoint defines a light or player spawn location in world pixels
type SpawnPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TileDefinition describes what a legend character stands for
type TileDefinition struct {
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties"` // blocks_sight, color, ...
}

// CircleData is a round occluder in world pixels
type CircleData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// LightData is a static light placed in the map
type LightData struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"` // "RRGGBB", optional
}

// MapData represents the loaded map configuration
type MapData struct {
	Name        string                    `json:"name"`
	Width       int                       `json:"width"`
	Height      int                       `json:"height"`
	TileSize    int                       `json:"tile_size"`
	PlayerSpawn SpawnPoint                `json:"player_spawn"`
	Legend      map[string]TileDefinition `json:"legend"` // keyed by single tile character
	Tiles       []string                  `json:"tiles"`  // one string per row
	Circles     []CircleData              `json:"circles"`
	Lights      []LightData               `json:"lights"`
}

// Map represents a loaded, validated map
type Map struct {
	Data *MapData
}

// LoadMap loads a map from a JSON file
func LoadMap(mapPath string) (*Map, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", mapPath, err)
	}

	m, err := ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("map file %s: %w", mapPath, err)
	}
	return m, nil
}

// ParseMap parses and validates map JSON
func ParseMap(data []byte) (*Map, error) {
	var mapData MapData
	if err := json.Unmarshal(data, &mapData); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}

	return NewMap(&mapData)
}

// NewMap validates map data built in code
func NewMap(data *MapData) (*Map, error) {
	if err := validateMapData(data); err != nil {
		return nil, fmt.Errorf("invalid map data: %w", err)
	}
	return &Map{Data: data}, nil
}

// validateMapData checks if the map data is valid
func validateMapData(data *MapData) error {
	if data.Width <= 0 || data.Height <= 0 {
		return fmt.Errorf("invalid map dimensions: %dx%d", data.Width, data.Height)
	}

	if data.TileSize <= 0 {
		return fmt.Errorf("invalid tile size: %d", data.TileSize)
	}

	if len(data.Tiles) != data.Height {
		return fmt.Errorf("tiles array height mismatch: expected %d, got %d", data.Height, len(data.Tiles))
	}

	for y, row := range data.Tiles {
		if len(row) != data.Width {
			return fmt.Errorf("tiles array width mismatch at row %d: expected %d, got %d", y, data.Width, len(row))
		}
	}

	for key := range data.Legend {
		if len(key) != 1 {
			return fmt.Errorf("legend key %q must be a single character", key)
		}
	}

	for i, c := range data.Circles {
		if c.Radius <= 0 {
			return fmt.Errorf("circle %d has invalid radius %v", i, c.Radius)
		}
	}

	return nil
}

// Size returns the map dimensions in tiles
func (m *Map) Size() (width, height int) {
	return m.Data.Width, m.Data.Height
}

// GetTileAt returns the tile character at the given grid coordinates
func (m *Map) GetTileAt(x, y int) (string, error) {
	if x < 0 || x >= m.Data.Width || y < 0 || y >= m.Data.Height {
		return "", fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}
	return m.Data.Tiles[y][x : x+1], nil
}

// GetTileDefAt returns the tile definition at the given grid coordinates
func (m *Map) GetTileDefAt(x, y int) (*TileDefinition, error) {
	key, err := m.GetTileAt(x, y)
	if err != nil {
		return nil, err
	}

	tile, ok := m.Data.Legend[key]
	if !ok {
		return nil, fmt.Errorf("tile %q not found in legend", key)
	}

	return &tile, nil
}

// BlocksSight returns whether the tile at the given coordinates blocks line of sight
func (m *Map) BlocksSight(x, y int) bool {
	tile, err := m.GetTileDefAt(x, y)
	if err != nil {
		return false
	}
	return tile.GetTilePropertyBool("blocks_sight", false)
}

// Bounds returns the map extent in world pixels
func (m *Map) Bounds() (width, height float64) {
	return float64(m.Data.Width * m.Data.TileSize), float64(m.Data.Height * m.Data.TileSize)
}

// Scene builds the occluder scene for the map: merged wall segments from the
// sight-blocking tiles plus the round occluders.
func (m *Map) Scene() *shadows.Scene {
	scene := &shadows.Scene{
		Segments: shadows.CreateWallSegmentsFromGrid(m, float64(m.Data.TileSize)),
	}
	for _, c := range m.Data.Circles {
		scene.Circles = append(scene.Circles, shadows.Circle{
			Center: shadows.Point{X: c.X, Y: c.Y},
			Radius: c.Radius,
		})
	}
	return scene
}

// GetTileProperty retrieves a property from a tile definition
func (td *TileDefinition) GetTileProperty(key string) (interface{}, bool) {
	if td.Properties == nil {
		return nil, false
	}
	val, ok := td.Properties[key]
	return val, ok
}

// GetTilePropertyBool retrieves a boolean property
func (td *TileDefinition) GetTilePropertyBool(key string, defaultVal bool) bool {
	val, ok := td.GetTileProperty(key)
	if !ok {
		return defaultVal
	}
	if boolVal, ok := val.(bool); ok {
		return boolVal
	}
	return defaultVal
}

// GetTilePropertyString retrieves a string property
func (td *TileDefinition) GetTilePropertyString(key string, defaultVal string) string {
	val, ok := td.GetTileProperty(key)
	if !ok {
		return defaultVal
	}
	if strVal, ok := val.(string); ok {
		return strVal
	}
	return defaultVal
}
