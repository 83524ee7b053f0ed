package game

import (
	"math"

	"daemon-hunt/internal/protocol"
)

// DefaultEnergyRate is the energy gained per simulated second while preparing
const DefaultEnergyRate = 6.0

// BattlePreparation is the local player's attack/defence charge.
//
//	Idle --Begin(kind)--> Preparing(kind) --Release--> Idle (+1 outbound request)
//
// Energy is only meaningful while active and restarts at zero on every Begin.
type BattlePreparation struct {
	kind   protocol.BattleKind
	energy float64
	active bool
	rate   float64
}

// NewBattlePreparation creates an idle preparation. A non-positive rate uses DefaultEnergyRate.
func NewBattlePreparation(rate float64) *BattlePreparation {
	if rate <= 0 {
		rate = DefaultEnergyRate
	}
	return &BattlePreparation{rate: rate}
}

// Begin starts preparing kind. Beginning while already preparing restarts the
// charge with the new kind.
func (b *BattlePreparation) Begin(kind protocol.BattleKind) bool {
	if !kind.Valid() {
		return false
	}
	b.kind = kind
	b.energy = 0
	b.active = true
	return true
}

// Advance accumulates energy for dt seconds of simulated time
func (b *BattlePreparation) Advance(dt float64) {
	if !b.active || dt <= 0 {
		return
	}
	b.energy += b.rate * dt
}

// energyEpsilon absorbs rounding left by summing many fractional ticks
const energyEpsilon = 1e-6

// Release ends the preparation and returns the request reporting floor(energy).
// It returns false when nothing was being prepared.
func (b *BattlePreparation) Release() (protocol.PrepareToBattleRequest, bool) {
	if !b.active {
		return protocol.PrepareToBattleRequest{}, false
	}
	b.active = false
	return protocol.NewPrepareToBattle(b.kind, int(math.Floor(b.energy+energyEpsilon))), true
}

// Active reports whether a preparation is in progress
func (b *BattlePreparation) Active() bool { return b.active }

// Kind returns the battle kind being prepared
func (b *BattlePreparation) Kind() protocol.BattleKind { return b.kind }

// Energy returns the accumulated energy
func (b *BattlePreparation) Energy() float64 { return b.energy }

// Tier returns the visual tier of the current energy
func (b *BattlePreparation) Tier() Tier {
	return TierFor(b.energy)
}
