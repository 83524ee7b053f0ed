package protocol

// Outbound is a client-to-server request
type Outbound interface {
	ActionName() string
}

// ConnectRequest is sent once at startup
type ConnectRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
}

func NewConnect(username string) ConnectRequest {
	return ConnectRequest{Action: "connect", Username: username}
}

func (r ConnectRequest) ActionName() string { return r.Action }

// MoveRequest asks the server to move the local player one tile
type MoveRequest struct {
	Action    string    `json:"action"`
	Direction Direction `json:"direction"`
}

func NewMove(dir Direction) MoveRequest {
	return MoveRequest{Action: "move", Direction: dir}
}

func (r MoveRequest) ActionName() string { return r.Action }

// PrepareToBattleRequest reports the energy accumulated during a battle preparation
type PrepareToBattleRequest struct {
	Action string     `json:"action"`
	Type   BattleKind `json:"type"`
	Energy int        `json:"energy"`
}

func NewPrepareToBattle(kind BattleKind, energy int) PrepareToBattleRequest {
	return PrepareToBattleRequest{Action: "prepare_to_battle", Type: kind, Energy: energy}
}

func (r PrepareToBattleRequest) ActionName() string { return r.Action }
