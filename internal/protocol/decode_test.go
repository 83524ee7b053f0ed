package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGameInitialized(t *testing.T) {
	frame := []byte(`{
		"type": "game_initialized",
		"map": {"width": 2, "height": 1, "tiles": [1, 5]},
		"creatures": [{"id": 7, "kind": "player", "name": "alice", "position": {"x": 0, "y": 0}}]
	}`)

	msg, err := Decode(frame)
	require.NoError(t, err)
	require.Equal(t, KindGameInitialized, msg.Kind())

	init := msg.(GameInitialized)
	assert.Equal(t, 2, init.Map.Width)
	assert.Equal(t, []int{1, 5}, init.Map.Tiles)
	require.Len(t, init.Creatures, 1)
	assert.Equal(t, ID("7"), init.Creatures[0].ID)
	assert.Equal(t, "alice", init.Creatures[0].Name)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		frame  string
		want   error
		reason string
	}{
		{"not json", `{nope`, ErrMalformed, "malformed"},
		{"array", `[1,2]`, ErrMalformed, "malformed"},
		{"numeric type", `{"type": 3}`, ErrMalformed, "malformed"},
		{"no type", `{"map": {}}`, ErrMissingType, "missing_type"},
		{"unknown type", `{"type": "teleport"}`, ErrUnknownType, "unknown_type"},
		{"bad field shape", `{"type": "move", "actor": "x"}`, ErrMalformed, "malformed"},
		{"tile count mismatch", `{"type": "game_initialized", "map": {"width": 2, "height": 2, "tiles": [1]}}`, ErrInvalid, "invalid"},
		{"move without actor", `{"type": "move", "success": false}`, ErrInvalid, "invalid"},
		{"successful move without position", `{"type": "move", "actor": {"id": "a"}, "success": true}`, ErrInvalid, "invalid"},
		{"successful move without origin", `{"type": "move", "actor": {"id": "b", "position": {"x": 2, "y": 0}}, "success": true}`, ErrInvalid, "invalid"},
		{"bad subtype", `{"type": "prepare_to_battle", "actor": {"id": "a"}, "subtype": "dodge"}`, ErrInvalid, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.frame))
			assert.Nil(t, msg)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, tt.reason, Reason(err))
		})
	}
}

func TestDecodeMoveOptionalFields(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"move","actor":{"id":"a","exhausted":true},"success":false,"previous_position":{"x":1,"y":2}}`))
	require.NoError(t, err)

	mv := msg.(Move)
	assert.False(t, mv.Success)
	assert.Nil(t, mv.Actor.Position)
	assert.Nil(t, mv.Actor.Stamina)
	require.NotNil(t, mv.Actor.Exhausted)
	assert.True(t, *mv.Actor.Exhausted)
	assert.Equal(t, &Position{X: 1, Y: 2}, mv.PreviousPosition)
}

func TestDecodeUpdateKeepsActionOrder(t *testing.T) {
	frame := []byte(`{
		"type": "update",
		"time": 42,
		"actions": [
			{"type": "move", "actor": {"id": "a", "position": {"x": 1, "y": 0}}, "success": true, "previous_position": {"x": 0, "y": 0}},
			{"type": "teleport"},
			{"type": "update", "time": 1},
			"garbage",
			{"type": "attack", "actor": {"id": "a"}, "success": true, "defender": {"id": "b"}, "defender_alive": false},
			{"type": "prepare_to_battle", "actor": {"id": "b"}, "subtype": "defence", "energy": 12.5}
		],
		"players": [{"id": "a", "stamina": 3.5}, {"id": 9, "prepared_to_battle": false}]
	}`)

	msg, err := Decode(frame)
	require.NoError(t, err)

	up := msg.(Update)
	assert.Equal(t, int64(42), up.Time)
	require.Len(t, up.Actions, 3)
	assert.Equal(t, KindMove, up.Actions[0].Kind())
	assert.Equal(t, KindAttack, up.Actions[1].Kind())
	assert.Equal(t, KindPrepareToBattle, up.Actions[2].Kind())
	assert.Equal(t, BattleDefence, up.Actions[2].(PrepareToBattle).Subtype)

	require.Len(t, up.Players, 2)
	assert.Equal(t, ID("9"), up.Players[1].ID)
	require.NotNil(t, up.Players[0].Stamina)
	assert.Equal(t, 3.5, *up.Players[0].Stamina)
}

func TestIDAcceptsStringsAndNumbers(t *testing.T) {
	var refs []ActorRef
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"abc"},{"id":12},{"id":null},{}]`), &refs))
	assert.Equal(t, []ActorRef{{ID: "abc"}, {ID: "12"}, {ID: ""}, {ID: ""}}, refs)

	var bad ActorRef
	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &bad))
}

func TestOutboundWireShape(t *testing.T) {
	tests := []struct {
		msg  Outbound
		want string
	}{
		{NewConnect("alice"), `{"action":"connect","username":"alice"}`},
		{NewMove(DirLeft), `{"action":"move","direction":"left"}`},
		{NewPrepareToBattle(BattleAttack, 80), `{"action":"prepare_to_battle","type":"attack","energy":80}`},
	}

	for _, tt := range tests {
		b, err := json.Marshal(tt.msg)
		require.NoError(t, err)
		assert.JSONEq(t, tt.want, string(b))
	}
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("down")
	assert.True(t, ok)
	assert.Equal(t, DirDown, d)

	_, ok = ParseDirection("north")
	assert.False(t, ok)
}
