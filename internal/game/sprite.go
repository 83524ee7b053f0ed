package game

import "image/color"

// Layer orders sprites at draw time, back to front
type Layer uint8

const (
	LayerBackground Layer = iota
	LayerForeground
	LayerCreatures
	LayerFX
	LayerUI
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerForeground:
		return "foreground"
	case LayerCreatures:
		return "creatures"
	case LayerFX:
		return "fx"
	case LayerUI:
		return "ui"
	default:
		return "unknown"
	}
}

// Sprite is a visual handle owned by the renderer. The world only references it.
// Positions are pixels with the y axis pointing up; rotation is in degrees.
type Sprite interface {
	Position() (x, y float64)
	SetPosition(x, y float64)
	Rotation() float64
	SetRotation(deg float64)
	Visible() bool
	SetVisible(v bool)
	Tint() color.RGBA
	SetTint(c color.RGBA)
	Image() string
	SetImage(name string)
}

// Scene creates and discards sprites
type Scene interface {
	NewSprite(layer Layer, image string) Sprite
	Remove(s Sprite)
}
