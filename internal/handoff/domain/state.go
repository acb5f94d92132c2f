package domain

import "fmt"

// HandoffState is a step of one sign-in attempt.
type HandoffState string

// Handoff states.
const (
	StateUnauthenticated       HandoffState = "unauthenticated"
	StateCredentialsSubmitted  HandoffState = "credentials_submitted"
	StateDirectlyAuthenticated HandoffState = "directly_authenticated"
	StateTokenIssued           HandoffState = "token_issued"
	StateTokenRedeemed         HandoffState = "token_redeemed"
	StateSessionEstablished    HandoffState = "session_established"
	StateFailed                HandoffState = "failed"
)

var transitions = map[HandoffState][]HandoffState{
	StateUnauthenticated:       {StateCredentialsSubmitted, StateTokenRedeemed},
	StateCredentialsSubmitted:  {StateDirectlyAuthenticated, StateTokenIssued},
	StateDirectlyAuthenticated: {StateSessionEstablished},
	StateTokenIssued:           {StateTokenRedeemed},
	StateTokenRedeemed:         {StateSessionEstablished},
}

// Terminal reports whether no further transition is possible.
func (s HandoffState) Terminal() bool {
	return s == StateSessionEstablished || s == StateFailed
}

// Transition validates the move from s to next. Any non-terminal state may fail.
// StateTokenRedeemed is reachable from StateUnauthenticated because the restore request
// arrives on a different origin, with no prior state of its own.
func Transition(s, next HandoffState) (HandoffState, error) {
	if s.Terminal() {
		return s, fmt.Errorf("handoff state %s is terminal", s)
	}
	if next == StateFailed {
		return next, nil
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, fmt.Errorf("invalid handoff transition %s -> %s", s, next)
}
