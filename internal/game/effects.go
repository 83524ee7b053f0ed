package game

import (
	"fmt"
	"image/color"
)

// bloodLifetimes are the play lengths (seconds) of the blood splash variants
var bloodLifetimes = [...]float64{0.6, 0.4, 0.4, 0.8, 0.4}

var bloodTint = color.RGBA{170, 0, 0, 255}

// BloodEffect is a short splash played on a hit defender. Instances live in
// the world's effect pool; the world releases the handle once Update reports
// the splash finished.
type BloodEffect struct {
	sprite   Sprite
	variant  int
	lifetime float64
	elapsed  float64
}

func newBloodEffect(scene Scene, variant int) *BloodEffect {
	variant %= len(bloodLifetimes)
	sprite := scene.NewSprite(LayerFX, fmt.Sprintf("fx/blood-%d", variant))
	sprite.SetTint(bloodTint)
	sprite.SetVisible(false)

	return &BloodEffect{
		sprite:   sprite,
		variant:  variant,
		lifetime: bloodLifetimes[variant],
	}
}

// Start (re)plays the splash at a pixel position, cutting any previous play short
func (e *BloodEffect) Start(x, y float64) {
	e.elapsed = 0
	e.sprite.SetPosition(x, y)
	e.sprite.SetVisible(true)
}

// Update advances the splash by dt seconds. It returns false once finished,
// at which point the sprite is hidden.
func (e *BloodEffect) Update(dt float64) bool {
	e.elapsed += dt
	if e.elapsed >= e.lifetime {
		e.sprite.SetVisible(false)
		return false
	}
	return true
}

// Progress returns the played fraction in [0, 1]
func (e *BloodEffect) Progress() float64 {
	if e.lifetime <= 0 {
		return 1
	}
	p := e.elapsed / e.lifetime
	if p > 1 {
		return 1
	}
	return p
}

func (e *BloodEffect) Sprite() Sprite { return e.sprite }
func (e *BloodEffect) Lifetime() float64 { return e.lifetime }
