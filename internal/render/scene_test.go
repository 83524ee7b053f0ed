package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daemon-hunt/internal/game"
)

func TestNewSpriteDefaults(t *testing.T) {
	sc := NewScene()
	s := sc.NewSprite(game.LayerCreatures, "creatures/12")

	assert.True(t, s.Visible())
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, s.Tint())
	assert.Equal(t, "creatures/12", s.Image())
	assert.Equal(t, 1, sc.Len(game.LayerCreatures))
	assert.Equal(t, 0, sc.Len(game.LayerBackground))
}

func TestEachVisitsBackLayersFirst(t *testing.T) {
	sc := NewScene()
	sc.NewSprite(game.LayerUI, "icons/a")
	sc.NewSprite(game.LayerBackground, "terrain/grass")
	sc.NewSprite(game.LayerCreatures, "creatures/0")
	sc.NewSprite(game.LayerBackground, "terrain/wall")

	var got []string
	sc.Each(func(s *Sprite) { got = append(got, s.Image()) })
	assert.Equal(t, []string{"terrain/grass", "terrain/wall", "creatures/0", "icons/a"}, got)
}

func TestRemove(t *testing.T) {
	sc := NewScene()
	a := sc.NewSprite(game.LayerFX, "fx/blood-0")
	b := sc.NewSprite(game.LayerFX, "fx/blood-1")

	sc.Remove(a)
	sc.Remove(a)
	assert.False(t, a.Visible())
	assert.Equal(t, 1, sc.Len(game.LayerFX))

	var seen []game.Sprite
	sc.Each(func(s *Sprite) { seen = append(seen, s) })
	require.Len(t, seen, 1)
	assert.Same(t, b, seen[0])
}

func TestRemoveCompacts(t *testing.T) {
	sc := NewScene()
	keep := sc.NewSprite(game.LayerBackground, "terrain/grass")
	for i := 0; i < 64; i++ {
		sc.Remove(sc.NewSprite(game.LayerFX, "fx/blood-0"))
	}

	assert.Empty(t, sc.layers[game.LayerFX])
	assert.Len(t, sc.layers[game.LayerBackground], 1)
	assert.Zero(t, sc.removed)
	assert.True(t, keep.Visible())
}
