package lighting

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"chosenoffset.com/lightcaster/internal/core/mesh"
	"chosenoffset.com/lightcaster/internal/core/visibility"
	"chosenoffset.com/lightcaster/internal/simulation"
)

// LightSource represents a single light source in the world
type LightSource struct {
	ID    string
	X     float64     // World X position (in pixels)
	Y     float64     // World Y position (in pixels)
	Color color.NRGBA // Light color

	// Disabled lights keep their last mesh but are skipped by Update
	Enabled bool

	buffer *visibility.Buffer // Reused between passes
	poly   visibility.Polygon
	mesh   *mesh.Mesh
	stats  visibility.Stats
}

// Center returns the light position as a sampler point
func (l *LightSource) Center() visibility.Point {
	return visibility.Point{X: l.X, Y: l.Y}
}

// Mesh returns the last computed light mesh, or nil if the light
// produced no usable polygon.
func (l *LightSource) Mesh() *mesh.Mesh {
	return l.mesh
}

// Polygon returns the last sampled visibility polygon
func (l *LightSource) Polygon() visibility.Polygon {
	return l.poly
}

// Stats returns counters from the last sampling pass
func (l *LightSource) Stats() visibility.Stats {
	return l.stats
}

// Manager handles all light sources in the scene
type Manager struct {
	config *simulation.Config
	lights []*LightSource
	byID   map[string]*LightSource
	tick   int

	// Trace receives every ray cast during Update when set
	Trace func(origin, end visibility.Point)
}

// NewManager creates a new lighting manager
func NewManager(config *simulation.Config) (*Manager, error) {
	if config == nil {
		config = simulation.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		config: config,
		lights: make([]*LightSource, 0),
		byID:   make(map[string]*LightSource),
	}, nil
}

// Config returns the active lighting config
func (m *Manager) Config() *simulation.Config {
	return m.config
}

// AddLight registers a light. Adding an ID twice replaces the old light.
func (m *Manager) AddLight(id string, x, y float64, col color.NRGBA) *LightSource {
	if old, ok := m.byID[id]; ok {
		m.removeFromList(old)
	}

	light := &LightSource{
		ID:      id,
		X:       x,
		Y:       y,
		Color:   col,
		Enabled: true,
		buffer:  visibility.NewBuffer(m.config.Visibility()),
	}
	m.lights = append(m.lights, light)
	m.byID[id] = light
	return light
}

// RemoveLight removes a light source by ID
func (m *Manager) RemoveLight(id string) {
	if light, ok := m.byID[id]; ok {
		m.removeFromList(light)
		delete(m.byID, id)
	}
}

func (m *Manager) removeFromList(light *LightSource) {
	for i, l := range m.lights {
		if l == light {
			m.lights = append(m.lights[:i], m.lights[i+1:]...)
			return
		}
	}
}

// GetLight returns the light with the given ID
func (m *Manager) GetLight(id string) (*LightSource, bool) {
	light, ok := m.byID[id]
	return light, ok
}

// MoveLight updates a light's position. The mesh is rebuilt on the next Update.
func (m *Manager) MoveLight(id string, x, y float64) {
	if light, ok := m.byID[id]; ok {
		light.X = x
		light.Y = y
	}
}

// GetAllLights returns all light sources in insertion order
func (m *Manager) GetAllLights() []*LightSource {
	return m.lights
}

// ClearLights removes all lights (called when loading a new scene)
func (m *Manager) ClearLights() {
	m.lights = make([]*LightSource, 0)
	m.byID = make(map[string]*LightSource)
}

// Update recomputes every light's visibility polygon and mesh against the
// caster. With a throttle of N only every Nth call does any work; the
// return value reports whether this call recomputed.
func (m *Manager) Update(caster visibility.RayCaster) (bool, error) {
	m.tick++
	if (m.tick-1)%m.config.ThrottleTicks() != 0 {
		return false, nil
	}

	cfg := m.config.Visibility()
	cfg.Trace = m.Trace

	for _, light := range m.lights {
		if !light.Enabled {
			continue
		}
		if err := m.updateLight(light, caster, cfg); err != nil {
			return true, fmt.Errorf("light %s: %w", light.ID, err)
		}
	}
	return true, nil
}

func (m *Manager) updateLight(light *LightSource, caster visibility.RayCaster, cfg visibility.Config) error {
	poly, stats, err := visibility.SampleWithStats(light.Center(), cfg, caster, light.buffer)
	if err != nil {
		return err
	}
	light.poly = poly
	light.stats = stats

	if m.config.Debug.LogStats {
		log.Printf("Light %s: %d vertices from %d casts", light.ID, stats.Vertices, stats.Casts)
	}

	lightMesh, err := mesh.Triangulate(light.Center(), poly, m.config.Mesh.UVRange)
	if errors.Is(err, mesh.ErrDegenerate) {
		// Nothing to draw this pass
		light.mesh = nil
		return nil
	}
	if err != nil {
		return err
	}

	if n := len(lightMesh.OutOfBand); n > 0 {
		log.Printf("WARNING: Light %s has %d vertices past the falloff band (uv_range %.1f, range %.1f)",
			light.ID, n, m.config.Mesh.UVRange, cfg.Range)
	}

	light.mesh = lightMesh
	return nil
}

// ParseColor parses an "RRGGBB" hex color, falling back to def when the
// string is empty or malformed.
func ParseColor(s string, def color.NRGBA) color.NRGBA {
	if len(s) != 6 {
		return def
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return def
	}
	return color.NRGBA{r, g, b, 255}
}
