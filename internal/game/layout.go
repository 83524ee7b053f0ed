package game

import "image/color"

// Tile cell size in unscaled pixels
const (
	cellWidth  = 16
	cellHeight = 24
)

// Layout converts tile coordinates into pixel coordinates.
// The y axis points up, so row 0 sits at the top of the window.
type Layout struct {
	Scale  float64
	Height int // map height in tiles
}

// Pixels returns the pixel center of tile (x, y)
func (l Layout) Pixels(x, y int) (float64, float64) {
	s := l.Scale
	px := 8*s + float64(x)*cellWidth*s
	py := float64(l.Height-y)*cellHeight*s - 12*s
	return px, py
}

// CreatureManifest describes how a creature kind is drawn
type CreatureManifest struct {
	Image string
	Tint  color.RGBA
}

var creatureManifests = map[string]CreatureManifest{
	"player": {Image: "creatures/12", Tint: color.RGBA{255, 255, 255, 255}},
	"goblin": {Image: "creatures/72", Tint: color.RGBA{68, 184, 46, 255}},
}

var defaultManifest = CreatureManifest{Image: "creatures/0", Tint: color.RGBA{200, 200, 200, 255}}

// ManifestFor returns the manifest of kind, falling back to a neutral one
func ManifestFor(kind string) (CreatureManifest, bool) {
	m, ok := creatureManifests[kind]
	if !ok {
		return defaultManifest, false
	}
	return m, true
}
