package game

import (
	"image/color"

	"daemon-hunt/internal/protocol"
)

// statusOffset is the pixel distance between an actor and its battle status indicator
const statusOffset = 12

// Rotation targets for the exhaustion cue
const (
	exhaustedRotation = 270
	restedRotation    = 0
)

// Actor is the local mirror of a server-side creature.
// X and Y always hold the last authoritative tile position; the sprite may
// still be travelling toward it.
type Actor struct {
	ID               protocol.ID
	Kind             string
	Name             string
	X, Y             int
	Exhausted        bool
	PreparedToBattle bool

	sprite Sprite
	status Sprite // battle status indicator, created on first use
	scene  Scene
}

func newActor(scene Scene, c protocol.Creature) *Actor {
	manifest, _ := ManifestFor(c.Kind)
	sprite := scene.NewSprite(LayerCreatures, manifest.Image)
	sprite.SetTint(manifest.Tint)

	return &Actor{
		ID:     c.ID,
		Kind:   c.Kind,
		Name:   c.Name,
		X:      c.Position.X,
		Y:      c.Position.Y,
		sprite: sprite,
		scene:  scene,
	}
}

// Sprite returns the actor's visual handle
func (a *Actor) Sprite() Sprite {
	return a.sprite
}

// Status returns the battle status indicator, or nil if it was never shown
func (a *Actor) Status() Sprite {
	return a.status
}

// PrepareToBattle shows the battle status indicator for kind, tinted by energy tier.
// BattleNone clears it.
func (a *Actor) PrepareToBattle(kind protocol.BattleKind, energy float64) {
	if kind == protocol.BattleNone {
		a.ClearBattleStatus()
		return
	}

	a.PreparedToBattle = true
	icon := statusIcon(kind)
	if a.status == nil {
		a.status = a.scene.NewSprite(LayerUI, icon)
	} else {
		a.status.SetImage(icon)
		a.status.SetVisible(true)
	}

	x, y := a.sprite.Position()
	a.status.SetPosition(x, y-statusOffset)
	a.status.SetTint(TierFor(energy).Color())
}

// ClearBattleStatus drops the prepared flag and hides the indicator
func (a *Actor) ClearBattleStatus() {
	a.PreparedToBattle = false
	if a.status != nil {
		a.status.SetVisible(false)
	}
}

// Hide makes the actor and its indicator invisible
func (a *Actor) Hide() {
	a.sprite.SetVisible(false)
	if a.status != nil {
		a.status.SetVisible(false)
	}
}

func (a *Actor) release() {
	a.scene.Remove(a.sprite)
	if a.status != nil {
		a.scene.Remove(a.status)
	}
}

func statusIcon(kind protocol.BattleKind) string {
	if kind == protocol.BattleAttack {
		return "icons/attack-prepared"
	}
	return "icons/defence-prepared"
}

// Tier is the visual strength bucket of a battle preparation
type Tier uint8

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// TierFor buckets energy: <=33 low, <=66 medium, above that high
func TierFor(energy float64) Tier {
	switch {
	case energy <= 33:
		return TierLow
	case energy <= 66:
		return TierMedium
	default:
		return TierHigh
	}
}

// Color returns the indicator tint of the tier
func (t Tier) Color() color.RGBA {
	switch t {
	case TierLow:
		return color.RGBA{194, 252, 93, 255}
	case TierMedium:
		return color.RGBA{252, 218, 93, 255}
	default:
		return color.RGBA{252, 101, 93, 255}
	}
}

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	default:
		return "high"
	}
}
