package livesession

import "encoding/json"

// State represents the lifecycle state of a session.
type State int

const (
	// StateIdle means no session is running. A new Start is accepted.
	StateIdle State = iota
	// StateConnecting means resources are being acquired and the remote
	// session is being opened.
	StateConnecting
	// StateActive means the remote session is open and the capture and
	// playback pipelines are wired.
	StateActive
	// StateError means the session failed unrecoverably. A new Start is
	// accepted after the failure has been surfaced.
	StateError
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *State) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "idle":
		*s = StateIdle
	case "connecting":
		*s = StateConnecting
	case "active":
		*s = StateActive
	case "error":
		*s = StateError
	default:
		*s = StateIdle
	}
	return nil
}
