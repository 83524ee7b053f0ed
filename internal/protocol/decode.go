package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformed means the frame is not a JSON object of the expected shape
	ErrMalformed = errors.New("malformed frame")
	// ErrMissingType means the frame has no type field
	ErrMissingType = errors.New("frame has no type")
	// ErrUnknownType means the type field names no known message
	ErrUnknownType = errors.New("unknown message type")
	// ErrInvalid means the message decoded but failed validation
	ErrInvalid = errors.New("invalid message")
)

type envelope struct {
	Type *string `json:"type"`
}

// Decode parses one inbound frame into a typed message.
func Decode(frame []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == nil {
		return nil, ErrMissingType
	}
	return decodeKind(*env.Type, frame)
}

// decodeAction parses a message embedded in an update; only action kinds are accepted
func decodeAction(frame []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == nil {
		return nil, ErrMissingType
	}
	if !ParseKind(*env.Type).IsAction() {
		return nil, fmt.Errorf("%w: %q is not an action", ErrUnknownType, *env.Type)
	}
	return decodeKind(*env.Type, frame)
}

func decodeKind(name string, frame []byte) (Message, error) {
	var msg Message
	switch ParseKind(name) {
	case KindGameInitialized:
		msg = unmarshal[GameInitialized](frame)
	case KindPlayerConnected:
		msg = unmarshal[PlayerConnected](frame)
	case KindUpdate:
		msg = unmarshal[Update](frame)
	case KindMove:
		msg = unmarshal[Move](frame)
	case KindAttack:
		msg = unmarshal[Attack](frame)
	case KindPrepareToBattle:
		msg = unmarshal[PrepareToBattle](frame)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}

	if d, ok := msg.(decodeFailure); ok {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, d.err)
	}
	if v, ok := msg.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
	}
	return msg, nil
}

// decodeFailure carries an unmarshal error through the Message-typed switch
type decodeFailure struct{ err error }

func (decodeFailure) Kind() Kind { return KindUnknown }

func unmarshal[T Message](frame []byte) Message {
	var m T
	if err := json.Unmarshal(frame, &m); err != nil {
		return decodeFailure{err: err}
	}
	return m
}

// Reason classifies a Decode error into a short, bounded label
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingType):
		return "missing_type"
	case errors.Is(err, ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, ErrInvalid):
		return "invalid"
	default:
		return "malformed"
	}
}
