package input

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daemon-hunt/internal/game"
	"daemon-hunt/internal/logger"
	"daemon-hunt/internal/protocol"
)

func TestMain(m *testing.M) {
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestParse(t *testing.T) {
	tests := []struct {
		line     string
		expected game.InputEvent
	}{
		{"left", game.InputEvent{Kind: game.InputMove, Direction: protocol.DirLeft}},
		{"W", game.InputEvent{Kind: game.InputMove, Direction: protocol.DirUp}},
		{"move right", game.InputEvent{Kind: game.InputMove, Direction: protocol.DirRight}},
		{"  !go s ", game.InputEvent{Kind: game.InputMove, Direction: protocol.DirDown}},
		{"attack", game.InputEvent{Kind: game.InputPrepareStart, Battle: protocol.BattleAttack}},
		{"defense", game.InputEvent{Kind: game.InputPrepareStart, Battle: protocol.BattleDefence}},
		{"r", game.InputEvent{Kind: game.InputPrepareRelease}},
		{"quit", game.InputEvent{Kind: game.InputQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ev, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ev)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("   ")
	assert.ErrorIs(t, err, ErrEmpty)

	for _, line := range []string{"jump", "move", "move north", "move left now"} {
		_, err := Parse(line)
		assert.Error(t, err, line)
	}
}

func TestRunSkipsBadLines(t *testing.T) {
	out := make(chan game.InputEvent, 8)
	err := Run(context.Background(), strings.NewReader("left\n\njump\nattack\nrelease\n"), out)
	require.NoError(t, err)

	var got []game.InputKind
	for ev := range out {
		got = append(got, ev.Kind)
	}
	assert.Equal(t, []game.InputKind{game.InputMove, game.InputPrepareStart, game.InputPrepareRelease}, got)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan game.InputEvent)
	err := Run(ctx, strings.NewReader("left\n"), out)
	assert.ErrorIs(t, err, context.Canceled)

	_, open := <-out
	assert.False(t, open)
}
