// Package protocol defines the JSON messages exchanged with the game server.
//
// Inbound frames are decoded into a closed set of message kinds (a tagged
// union); anything that does not decode or carries an unrecognized type is
// rejected with a sentinel error so the caller can drop it.
package protocol

// Kind enumerates the inbound message kinds
type Kind uint8

const (
	KindUnknown Kind = iota
	KindGameInitialized
	KindPlayerConnected
	KindUpdate
	KindMove
	KindAttack
	KindPrepareToBattle
)

var kindNames = map[string]Kind{
	"game_initialized":  KindGameInitialized,
	"player_connected":  KindPlayerConnected,
	"update":            KindUpdate,
	"move":              KindMove,
	"attack":            KindAttack,
	"prepare_to_battle": KindPrepareToBattle,
}

// ParseKind maps a wire type string to a Kind. Unrecognized strings yield KindUnknown.
func ParseKind(s string) Kind {
	return kindNames[s]
}

// String returns the wire name of the kind
func (k Kind) String() string {
	switch k {
	case KindGameInitialized:
		return "game_initialized"
	case KindPlayerConnected:
		return "player_connected"
	case KindUpdate:
		return "update"
	case KindMove:
		return "move"
	case KindAttack:
		return "attack"
	case KindPrepareToBattle:
		return "prepare_to_battle"
	default:
		return "unknown"
	}
}

// IsAction reports whether the kind may appear inside an update envelope
func (k Kind) IsAction() bool {
	return k == KindMove || k == KindAttack || k == KindPrepareToBattle
}

// BattleKind is the kind of battle preparation
type BattleKind string

const (
	BattleNone    BattleKind = ""
	BattleAttack  BattleKind = "attack"
	BattleDefence BattleKind = "defence"
)

// Valid reports whether k is attack or defence
func (k BattleKind) Valid() bool {
	return k == BattleAttack || k == BattleDefence
}

// Direction is a movement direction sent by the client
type Direction string

const (
	DirLeft  Direction = "left"
	DirUp    Direction = "up"
	DirRight Direction = "right"
	DirDown  Direction = "down"
)

// ParseDirection validates a direction string
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case DirLeft, DirUp, DirRight, DirDown:
		return d, true
	}
	return "", false
}
