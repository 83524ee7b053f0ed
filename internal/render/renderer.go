package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"daemon-hunt/internal/game"
	"daemon-hunt/internal/logger"
	"daemon-hunt/internal/observability"
)

// Options configures the headless renderer
type Options struct {
	Width  int
	Height int
	Scale  float64 // must match the world's scale so tile footprints line up

	// FontPath is an optional TTF/OTF file for the HUD. The built-in
	// bitmap face is used when empty or unreadable.
	FontPath string
	FontSize float64

	// SnapshotPath receives a PNG of the frame every SnapshotEvery draws.
	// Disabled when empty or SnapshotEvery <= 0.
	SnapshotPath  string
	SnapshotEvery int
}

// DefaultOptions returns a 960x720 canvas with snapshots disabled
func DefaultOptions() Options {
	return Options{
		Width:    960,
		Height:   720,
		Scale:    2,
		FontSize: 14,
	}
}

const hudHeight = 28

// Renderer draws a Scene into an in-memory gg canvas.
type Renderer struct {
	opts   Options
	scene  *Scene
	dc     *gg.Context
	face   font.Face
	frames uint64
}

// New creates a renderer for scene
func New(opts Options, scene *Scene) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.Scale <= 0 {
		opts.Scale = def.Scale
	}

	r := &Renderer{
		opts:  opts,
		scene: scene,
		dc:    gg.NewContext(opts.Width, opts.Height),
	}
	r.face = loadFace(opts.FontPath, opts.FontSize)
	return r
}

// loadFace parses the font once at startup; per-frame loading is too slow.
func loadFace(path string, size float64) font.Face {
	if path == "" {
		return basicfont.Face7x13
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Log.WithError(err).WithField("path", path).Warn("font unreadable, using built-in face")
		return basicfont.Face7x13
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		logger.Log.WithError(err).WithField("path", path).Warn("font parse failed, using built-in face")
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		logger.Log.WithError(err).Warn("font face creation failed, using built-in face")
		return basicfont.Face7x13
	}
	return face
}

// Frames returns how many frames have been drawn
func (r *Renderer) Frames() uint64 { return r.frames }

// Image returns the last drawn frame
func (r *Renderer) Image() image.Image { return r.dc.Image() }

// Draw renders every visible sprite plus the HUD line of w.
func (r *Renderer) Draw(w *game.World) error {
	start := time.Now()
	defer func() { observability.RecordRender(time.Since(start)) }()

	dc := r.dc
	dc.SetColor(color.RGBA{12, 12, 28, 255})
	dc.Clear()

	r.scene.Each(func(s *Sprite) {
		if s.Visible() {
			r.drawSprite(s)
		}
	})

	r.drawHUD(w.StatusLine())
	r.frames++

	if r.opts.SnapshotPath != "" && r.opts.SnapshotEvery > 0 && r.frames%uint64(r.opts.SnapshotEvery) == 0 {
		if err := r.SavePNG(r.opts.SnapshotPath); err != nil {
			return fmt.Errorf("save frame: %w", err)
		}
	}
	return nil
}

// SavePNG writes the current frame atomically (temp file + rename)
func (r *Renderer) SavePNG(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := r.dc.SavePNG(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// canvas maps layout pixels (y up) to canvas pixels (y down), leaving room
// for the HUD bar at the bottom.
func (r *Renderer) canvas(x, y float64) (float64, float64) {
	return x, float64(r.opts.Height-hudHeight) - y
}

func (r *Renderer) drawSprite(s *Sprite) {
	dc := r.dc
	px, py := s.Position()
	cx, cy := r.canvas(px, py)
	scale := r.opts.Scale
	c := modulate(paletteFor(s.Image()), s.Tint())

	dc.Push()
	defer dc.Pop()
	if rot := s.Rotation(); rot != 0 {
		dc.RotateAbout(gg.Radians(rot), cx, cy)
	}

	dc.SetColor(c)
	switch s.Layer() {
	case game.LayerBackground:
		w, h := 16*scale, 24*scale
		dc.DrawRectangle(cx-w/2, cy-h/2, w, h)
		dc.Fill()
	case game.LayerForeground:
		dc.DrawCircle(cx, cy, 6*scale)
		dc.Fill()
	case game.LayerCreatures:
		// Shadow
		dc.SetColor(color.RGBA{0, 0, 0, 96})
		dc.DrawEllipse(cx, cy+7*scale, 6*scale, 2*scale)
		dc.Fill()
		dc.SetColor(c)
		dc.DrawRectangle(cx-5*scale, cy-8*scale, 10*scale, 14*scale)
		dc.Fill()
		dc.SetColor(color.RGBA{20, 25, 35, 255})
		dc.SetLineWidth(1)
		dc.DrawRectangle(cx-5*scale, cy-8*scale, 10*scale, 14*scale)
		dc.Stroke()
	case game.LayerFX:
		dc.DrawCircle(cx, cy, 4*scale)
		dc.Fill()
	default:
		dc.DrawRegularPolygon(3, cx, cy, 4*scale, 0)
		dc.Fill()
	}
}

func (r *Renderer) drawHUD(status string) {
	dc := r.dc
	top := float64(r.opts.Height - hudHeight)
	dc.SetColor(color.RGBA{0, 0, 0, 200})
	dc.DrawRectangle(0, top, float64(r.opts.Width), hudHeight)
	dc.Fill()

	if status == "" {
		status = "waiting for game"
	}
	dc.SetFontFace(r.face)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(status, 8, top+hudHeight/2, 0, 0.5)
}

// palette is keyed by full image name, falling back to the first path element
var palette = map[string]color.RGBA{
	"terrain/grass":  {76, 140, 60, 255},
	"terrain/water":  {52, 96, 180, 255},
	"terrain/wall":   {90, 70, 60, 255},
	"terrain/floor":  {170, 150, 120, 255},
	"terrain/ground": {150, 120, 80, 255},
	"terrain/road":   {180, 170, 150, 255},
	"objects":        {40, 80, 36, 255},
	"creatures":      {255, 255, 255, 255},
	"fx":             {255, 255, 255, 255},
	"icons":          {255, 255, 255, 255},
}

func paletteFor(name string) color.RGBA {
	if c, ok := palette[name]; ok {
		return c
	}
	if i := strings.IndexByte(name, '/'); i > 0 {
		if c, ok := palette[name[:i]]; ok {
			return c
		}
	}
	return color.RGBA{255, 0, 255, 255}
}

// modulate multiplies base by tint per channel, like a sprite tint
func modulate(base, tint color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(base.R) * uint16(tint.R) / 255),
		G: uint8(uint16(base.G) * uint16(tint.G) / 255),
		B: uint8(uint16(base.B) * uint16(tint.B) / 255),
		A: base.A,
	}
}
