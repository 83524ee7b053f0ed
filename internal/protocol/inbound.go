package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message is one decoded inbound message
type Message interface {
	Kind() Kind
}

// Validator is implemented by messages that check their own invariants after decoding
type Validator interface {
	Validate() error
}

// Position is an integer tile coordinate
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Creature describes an actor as announced by the server
type Creature struct {
	ID       ID       `json:"id"`
	Kind     string   `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Position Position `json:"position"`
}

// ActorState is the per-actor payload carried by actions and update player lists.
// Optional fields are nil when the server omitted them.
type ActorState struct {
	ID               ID        `json:"id"`
	Position         *Position `json:"position,omitempty"`
	Exhausted        *bool     `json:"exhausted,omitempty"`
	PreparedToBattle *bool     `json:"prepared_to_battle,omitempty"`
	Stamina          *float64  `json:"stamina,omitempty"`
}

// ActorRef points at another actor by id
type ActorRef struct {
	ID ID `json:"id"`
}

// MapData is the tile grid announced at initialization, row-major
type MapData struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Tiles  []int `json:"tiles"`
}

// GameInitialized is the first world description sent after connecting
type GameInitialized struct {
	Map       MapData    `json:"map"`
	Creatures []Creature `json:"creatures"`
}

func (GameInitialized) Kind() Kind { return KindGameInitialized }

// Validate checks the grid dimensions against the tile list
func (m GameInitialized) Validate() error {
	if m.Map.Width <= 0 || m.Map.Height <= 0 {
		return fmt.Errorf("map dimensions must be positive, got %dx%d", m.Map.Width, m.Map.Height)
	}
	if len(m.Map.Tiles) != m.Map.Width*m.Map.Height {
		return fmt.Errorf("map has %d tiles, want %d", len(m.Map.Tiles), m.Map.Width*m.Map.Height)
	}
	for _, c := range m.Creatures {
		if c.ID == "" {
			return errors.New("creature id is required")
		}
	}
	return nil
}

// PlayerConnected announces a creature joining the session
type PlayerConnected struct {
	Player Creature `json:"player"`
}

func (PlayerConnected) Kind() Kind { return KindPlayerConnected }

func (m PlayerConnected) Validate() error {
	if m.Player.ID == "" {
		return errors.New("player id is required")
	}
	return nil
}

// Move reports the outcome of an actor's move
type Move struct {
	Actor            ActorState `json:"actor"`
	Success          bool       `json:"success"`
	PreviousPosition *Position  `json:"previous_position"`
}

func (Move) Kind() Kind { return KindMove }

func (m Move) Validate() error {
	if m.Actor.ID == "" {
		return errors.New("actor id is required")
	}
	if m.Success && m.Actor.Position == nil {
		return errors.New("successful move requires actor position")
	}
	if m.Success && m.PreviousPosition == nil {
		return errors.New("successful move requires previous position")
	}
	return nil
}

// Attack reports the outcome of an attack
type Attack struct {
	Actor         ActorState `json:"actor"`
	Success       bool       `json:"success"`
	Defender      ActorRef   `json:"defender"`
	DefenderAlive bool       `json:"defender_alive"`
}

func (Attack) Kind() Kind { return KindAttack }

func (m Attack) Validate() error {
	if m.Actor.ID == "" {
		return errors.New("actor id is required")
	}
	if m.Success && m.Defender.ID == "" {
		return errors.New("successful attack requires defender id")
	}
	return nil
}

// PrepareToBattle reports an actor's battle preparation. An empty subtype clears it.
type PrepareToBattle struct {
	Actor   ActorState `json:"actor"`
	Subtype BattleKind `json:"subtype"`
	Energy  float64    `json:"energy"`
}

func (PrepareToBattle) Kind() Kind { return KindPrepareToBattle }

func (m PrepareToBattle) Validate() error {
	if m.Actor.ID == "" {
		return errors.New("actor id is required")
	}
	if m.Subtype != BattleNone && !m.Subtype.Valid() {
		return fmt.Errorf("unknown battle subtype %q", m.Subtype)
	}
	return nil
}

// Update is the batched per-tick envelope
type Update struct {
	Time    int64        `json:"time"`
	Actions Actions      `json:"actions"`
	Players []ActorState `json:"players"`
}

func (Update) Kind() Kind { return KindUpdate }

// Actions is the ordered list of actions embedded in an update.
// Entries that fail to decode or carry a non-action type are skipped.
type Actions []Message

// UnmarshalJSON decodes each embedded action by its own type field
func (a *Actions) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Actions, 0, len(raw))
	for _, r := range raw {
		msg, err := decodeAction(r)
		if err != nil {
			continue
		}
		out = append(out, msg)
	}
	*a = out
	return nil
}
