package game

import (
	"sort"

	"daemon-hunt/internal/protocol"
)

// ActorSnapshot is an immutable copy of actor state.
// Uses value types (not pointers) so readers on other goroutines never alias world state.
type ActorSnapshot struct {
	ID               protocol.ID `json:"id"`
	Kind             string      `json:"kind"`
	Name             string      `json:"name,omitempty"`
	X                int         `json:"x"`
	Y                int         `json:"y"`
	DisplayX         float64     `json:"displayX"`
	DisplayY         float64     `json:"displayY"`
	Rotation         float64     `json:"rotation"`
	Exhausted        bool        `json:"exhausted"`
	PreparedToBattle bool        `json:"preparedToBattle"`
	Local            bool        `json:"local,omitempty"`
}

// BattleSnapshot is the local battle preparation state
type BattleSnapshot struct {
	Active bool                `json:"active"`
	Kind   protocol.BattleKind `json:"kind,omitempty"`
	Energy float64             `json:"energy"`
	Tier   string              `json:"tier,omitempty"`
}

// EffectsSnapshot describes the blood effect pool
type EffectsSnapshot struct {
	PoolSize  int    `json:"poolSize"`
	Active    int    `json:"active"`
	Evictions uint64 `json:"evictions"`
}

// Snapshot is an immutable copy of the world for concurrent readers
type Snapshot struct {
	Time           int64           `json:"time"`
	Width          int             `json:"width"`
	Height         int             `json:"height"`
	Tiles          []TileType      `json:"tiles"`
	Occupied       []int           `json:"occupied"` // row-major indices whose foreground marker is hidden
	Actors         []ActorSnapshot `json:"actors"`
	LocalPlayer    protocol.ID     `json:"localPlayer,omitempty"`
	Stamina        float64         `json:"stamina"`
	Battle         BattleSnapshot  `json:"battle"`
	Interpolations int             `json:"interpolations"`
	Effects        EffectsSnapshot `json:"effects"`
	Status         string          `json:"status"`
	Outbound       int             `json:"outbound"`
}

// Snapshot copies the current world state. Actors are sorted by id.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Time:           w.time,
		Width:          w.width,
		Height:         w.height,
		Tiles:          make([]TileType, len(w.tiles)),
		Occupied:       make([]int, 0),
		Actors:         make([]ActorSnapshot, 0, len(w.actors)),
		Stamina:        w.stamina,
		Interpolations: w.anim.Len(),
		Status:         w.StatusLine(),
	}

	for i := range w.tiles {
		s.Tiles[i] = w.tiles[i].Type
		if w.tiles[i].Occupied() {
			s.Occupied = append(s.Occupied, i)
		}
	}

	for _, a := range w.actors {
		dx, dy := a.sprite.Position()
		s.Actors = append(s.Actors, ActorSnapshot{
			ID:               a.ID,
			Kind:             a.Kind,
			Name:             a.Name,
			X:                a.X,
			Y:                a.Y,
			DisplayX:         dx,
			DisplayY:         dy,
			Rotation:         a.sprite.Rotation(),
			Exhausted:        a.Exhausted,
			PreparedToBattle: a.PreparedToBattle,
			Local:            a == w.player,
		})
	}
	sort.Slice(s.Actors, func(i, j int) bool { return s.Actors[i].ID < s.Actors[j].ID })

	if w.player != nil {
		s.LocalPlayer = w.player.ID
	}

	if w.battle.Active() {
		s.Battle = BattleSnapshot{
			Active: true,
			Kind:   w.battle.Kind(),
			Energy: w.battle.Energy(),
			Tier:   w.battle.Tier().String(),
		}
	}

	s.Effects.PoolSize, s.Effects.Active, s.Effects.Evictions = w.EffectPool()
	if w.queue != nil {
		s.Outbound = w.queue.Len()
	}
	return s
}
