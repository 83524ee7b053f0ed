package render

import (
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"daemon-hunt/internal/game"
	"daemon-hunt/internal/logger"
	"daemon-hunt/internal/protocol"
)

func TestMain(m *testing.M) {
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newWorld(t *testing.T, sc *Scene) *game.World {
	t.Helper()
	opts := game.DefaultOptions()
	opts.Username = "alice"
	w := game.NewWorld(opts, sc, protocol.NewQueue())
	w.Dispatch(protocol.GameInitialized{
		Map: protocol.MapData{Width: 2, Height: 1, Tiles: []int{int(game.TileGrass), int(game.TileWall)}},
		Creatures: []protocol.Creature{
			{ID: "1", Kind: "player", Name: "alice", Position: protocol.Position{X: 0, Y: 0}},
		},
	})
	return w
}

func pixel(r *Renderer, x, y int) color.RGBA {
	return color.RGBAModel.Convert(r.Image().At(x, y)).(color.RGBA)
}

func TestDrawPaintsTiles(t *testing.T) {
	sc := NewScene()
	w := newWorld(t, sc)
	r := New(Options{}, sc)

	require.NoError(t, r.Draw(w))
	assert.Equal(t, uint64(1), r.Frames())

	// wall tile (1,0) at scale 2 is centred on layout pixel (48, 24)
	assert.Equal(t, palette["terrain/wall"], pixel(r, 48, 720-hudHeight-24))
	// empty canvas
	assert.Equal(t, color.RGBA{12, 12, 28, 255}, pixel(r, 500, 100))
}

func TestDrawSkipsHiddenSprites(t *testing.T) {
	sc := NewScene()
	w := newWorld(t, sc)
	r := New(Options{}, sc)

	sc.Each(func(s *Sprite) {
		if s.Image() == "terrain/wall" {
			s.SetVisible(false)
		}
	})
	require.NoError(t, r.Draw(w))
	assert.Equal(t, color.RGBA{12, 12, 28, 255}, pixel(r, 48, 720-hudHeight-24))
}

func TestSnapshotEveryN(t *testing.T) {
	sc := NewScene()
	w := newWorld(t, sc)
	path := filepath.Join(t.TempDir(), "frames", "latest.png")
	r := New(Options{SnapshotPath: path, SnapshotEvery: 2}, sc)

	require.NoError(t, r.Draw(w))
	assert.NoFileExists(t, path)

	require.NoError(t, r.Draw(w))
	assert.FileExists(t, path)
	assert.NoFileExists(t, path+".tmp")
}

func TestLoadFaceFallsBack(t *testing.T) {
	assert.Equal(t, basicfont.Face7x13, loadFace("", 14))
	assert.Equal(t, basicfont.Face7x13, loadFace(filepath.Join(t.TempDir(), "missing.ttf"), 14))

	bad := filepath.Join(t.TempDir(), "bad.ttf")
	require.NoError(t, os.WriteFile(bad, []byte("not a font"), 0o644))
	assert.Equal(t, basicfont.Face7x13, loadFace(bad, 14))
}

func TestModulateAndPalette(t *testing.T) {
	assert.Equal(t, color.RGBA{76, 140, 60, 255}, modulate(palette["terrain/grass"], color.RGBA{255, 255, 255, 255}))
	assert.Equal(t, color.RGBA{170, 0, 0, 255}, modulate(palette["fx"], color.RGBA{170, 0, 0, 255}))
	assert.Equal(t, palette["creatures"], paletteFor("creatures/72"))
	assert.Equal(t, color.RGBA{255, 0, 255, 255}, paletteFor("unknown"))
}
