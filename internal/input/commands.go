// Package input turns typed commands into local input events.
package input

import (
	"errors"
	"fmt"
	"strings"

	"daemon-hunt/internal/game"
	"daemon-hunt/internal/protocol"
)

// ErrEmpty is returned for blank lines
var ErrEmpty = errors.New("empty command")

// CommandType for routing
type CommandType int

const (
	CmdMove CommandType = iota
	CmdAttack
	CmdDefence
	CmdRelease
	CmdQuit
	CmdUnknown
)

// SupportedCommands maps command words to types
var SupportedCommands = map[string]CommandType{
	// Move variants; the direction follows
	"move": CmdMove,
	"m":    CmdMove,
	"go":   CmdMove,

	// Battle preparation
	"attack":  CmdAttack,
	"atk":     CmdAttack,
	"defence": CmdDefence,
	"defense": CmdDefence,
	"def":     CmdDefence,
	"release": CmdRelease,
	"r":       CmdRelease,

	"quit": CmdQuit,
	"exit": CmdQuit,
	"q":    CmdQuit,
}

// DirectionAliases lets a bare direction (or WASD key) stand for a move
var DirectionAliases = map[string]protocol.Direction{
	"left":  protocol.DirLeft,
	"a":     protocol.DirLeft,
	"up":    protocol.DirUp,
	"w":     protocol.DirUp,
	"right": protocol.DirRight,
	"d":     protocol.DirRight,
	"down":  protocol.DirDown,
	"s":     protocol.DirDown,
}

// GetCommandType returns the command type for a lowercase word
func GetCommandType(word string) CommandType {
	if t, ok := SupportedCommands[word]; ok {
		return t
	}
	return CmdUnknown
}

// Parse converts one command line into an input event. Words are
// case-insensitive and a leading "!" is accepted.
func Parse(line string) (game.InputEvent, error) {
	line = strings.TrimPrefix(strings.TrimSpace(line), "!")
	parts := strings.Fields(strings.ToLower(line))
	if len(parts) == 0 {
		return game.InputEvent{}, ErrEmpty
	}

	word, args := parts[0], parts[1:]
	if dir, ok := DirectionAliases[word]; ok && len(args) == 0 {
		return game.InputEvent{Kind: game.InputMove, Direction: dir}, nil
	}

	switch GetCommandType(word) {
	case CmdMove:
		if len(args) != 1 {
			return game.InputEvent{}, errors.New("usage: move left|up|right|down")
		}
		dir, ok := DirectionAliases[args[0]]
		if !ok {
			return game.InputEvent{}, fmt.Errorf("unknown direction %q", args[0])
		}
		return game.InputEvent{Kind: game.InputMove, Direction: dir}, nil
	case CmdAttack:
		return game.InputEvent{Kind: game.InputPrepareStart, Battle: protocol.BattleAttack}, nil
	case CmdDefence:
		return game.InputEvent{Kind: game.InputPrepareStart, Battle: protocol.BattleDefence}, nil
	case CmdRelease:
		return game.InputEvent{Kind: game.InputPrepareRelease}, nil
	case CmdQuit:
		return game.InputEvent{Kind: game.InputQuit}, nil
	default:
		return game.InputEvent{}, fmt.Errorf("unknown command %q", word)
	}
}
