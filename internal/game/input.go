package game

import "daemon-hunt/internal/protocol"

// InputKind enumerates local input events
type InputKind uint8

const (
	InputNone InputKind = iota
	InputMove
	InputPrepareStart
	InputPrepareRelease
	InputQuit
)

// InputEvent is one local player action, already bound from a device
type InputEvent struct {
	Kind      InputKind
	Direction protocol.Direction  // InputMove
	Battle    protocol.BattleKind // InputPrepareStart
}

func (k InputKind) String() string {
	switch k {
	case InputMove:
		return "move"
	case InputPrepareStart:
		return "prepare_start"
	case InputPrepareRelease:
		return "prepare_release"
	case InputQuit:
		return "quit"
	default:
		return "none"
	}
}
