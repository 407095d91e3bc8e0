package game

import (
	"chosenoffset.com/lightcaster/internal/core/visibility"
)

// PlayerLightID is the light moved by the keyboard.
const PlayerLightID = "player"

// Camera tracks the viewport position for scrolling large scenes.
type Camera struct {
	X, Y float64 // Camera position (top-left corner of viewport in world coords)
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// TraceRay is a single cast ray recorded for the debug overlay.
type TraceRay struct {
	Origin, End visibility.Point
}
