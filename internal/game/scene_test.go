package game

import (
	"image/color"
	"io"
	"os"
	"testing"

	"daemon-hunt/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeSprite struct {
	layer    Layer
	image    string
	x, y     float64
	rotation float64
	visible  bool
	tint     color.RGBA
	removed  bool
}

func (s *fakeSprite) Position() (float64, float64) { return s.x, s.y }
func (s *fakeSprite) SetPosition(x, y float64)     { s.x, s.y = x, y }
func (s *fakeSprite) Rotation() float64            { return s.rotation }
func (s *fakeSprite) SetRotation(deg float64)      { s.rotation = deg }
func (s *fakeSprite) Visible() bool                { return s.visible }
func (s *fakeSprite) SetVisible(v bool)            { s.visible = v }
func (s *fakeSprite) Tint() color.RGBA             { return s.tint }
func (s *fakeSprite) SetTint(c color.RGBA)         { s.tint = c }
func (s *fakeSprite) Image() string                { return s.image }
func (s *fakeSprite) SetImage(name string)         { s.image = name }

type fakeScene struct {
	sprites []*fakeSprite
}

func (sc *fakeScene) NewSprite(layer Layer, image string) Sprite {
	s := &fakeSprite{layer: layer, image: image, visible: true}
	sc.sprites = append(sc.sprites, s)
	return s
}

func (sc *fakeScene) Remove(s Sprite) {
	s.(*fakeSprite).removed = true
}

func (sc *fakeScene) count(layer Layer) int {
	n := 0
	for _, s := range sc.sprites {
		if s.layer == layer && !s.removed {
			n++
		}
	}
	return n
}
