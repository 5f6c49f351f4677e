package session

// State is the lifecycle position of a Manager.
//
//	Uninitialized -> Initializing -> {Authenticated, Anonymous}
//	Authenticated -> RefreshInFlight -> {Authenticated, Anonymous}
//
// RefreshInFlight is never a resting state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateAuthenticated
	StateRefreshInFlight
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshInFlight:
		return "refresh_in_flight"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}
