package runner

// State is the lifecycle state of the current connection attempt.
type State int32

const (
	Unconnected State = iota
	Connected
	Joining
	Joined
	Leaving
	Left
	Disconnected
)

var stateNames = [...]string{
	Unconnected:  "unconnected",
	Connected:    "connected",
	Joining:      "joining",
	Joined:       "joined",
	Leaving:      "leaving",
	Left:         "left",
	Disconnected: "disconnected",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
