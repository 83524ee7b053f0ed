// Package render owns the client's sprites and draws them into frames.
package render

import (
	"image/color"

	"daemon-hunt/internal/game"
)

// Sprite is a plain retained-mode sprite. The zero value is invisible; use
// Scene.NewSprite.
type Sprite struct {
	layer    game.Layer
	image    string
	x, y     float64
	rotation float64
	visible  bool
	tint     color.RGBA
	removed  bool
}

func (s *Sprite) Position() (float64, float64) { return s.x, s.y }
func (s *Sprite) SetPosition(x, y float64)     { s.x, s.y = x, y }
func (s *Sprite) Rotation() float64            { return s.rotation }
func (s *Sprite) SetRotation(deg float64)      { s.rotation = deg }
func (s *Sprite) Visible() bool                { return s.visible }
func (s *Sprite) SetVisible(v bool)            { s.visible = v }
func (s *Sprite) Tint() color.RGBA             { return s.tint }
func (s *Sprite) SetTint(c color.RGBA)         { s.tint = c }
func (s *Sprite) Image() string                { return s.image }
func (s *Sprite) SetImage(name string)         { s.image = name }
func (s *Sprite) Layer() game.Layer            { return s.layer }

const layerCount = int(game.LayerUI) + 1

// Scene keeps sprites grouped by layer in creation order.
// Like the world it serves, it is owned by the scheduler goroutine.
type Scene struct {
	layers  [layerCount][]*Sprite
	removed int
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{}
}

// NewSprite adds a visible, untinted sprite to layer
func (sc *Scene) NewSprite(layer game.Layer, image string) game.Sprite {
	if int(layer) >= layerCount {
		layer = game.LayerUI
	}
	s := &Sprite{
		layer:   layer,
		image:   image,
		visible: true,
		tint:    color.RGBA{255, 255, 255, 255},
	}
	sc.layers[layer] = append(sc.layers[layer], s)
	return s
}

// Remove drops s from the scene. Removed sprites are compacted lazily.
func (sc *Scene) Remove(s game.Sprite) {
	sp, ok := s.(*Sprite)
	if !ok || sp.removed {
		return
	}
	sp.removed = true
	sp.visible = false
	sc.removed++
	if sc.removed >= 64 {
		sc.compact()
	}
}

func (sc *Scene) compact() {
	for i := range sc.layers {
		kept := sc.layers[i][:0]
		for _, s := range sc.layers[i] {
			if !s.removed {
				kept = append(kept, s)
			}
		}
		clear(sc.layers[i][len(kept):])
		sc.layers[i] = kept
	}
	sc.removed = 0
}

// Each calls fn for every live sprite, back layer first
func (sc *Scene) Each(fn func(*Sprite)) {
	for i := range sc.layers {
		for _, s := range sc.layers[i] {
			if !s.removed {
				fn(s)
			}
		}
	}
}

// Len returns the number of live sprites in layer
func (sc *Scene) Len(layer game.Layer) int {
	if int(layer) >= layerCount {
		return 0
	}
	n := 0
	for _, s := range sc.layers[layer] {
		if !s.removed {
			n++
		}
	}
	return n
}
