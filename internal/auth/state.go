package auth

import "github.com/localmart/marketplace/internal/entity"

// State is the tagged variant describing where the user is in the
// login / reset flow. Exactly one variant is live at a time; the Flow
// owns the current one and all transitions between them.
type State interface {
	// Name is a stable label for logging and the state query endpoint.
	Name() string
}

// LoggedOut is the initial state: nothing but the auth surface is
// reachable.
type LoggedOut struct{}

func (LoggedOut) Name() string { return "loggedOut" }

// LoggingIn is the login screen with a credential method selected.
type LoggingIn struct {
	Method entity.AuthMethod
}

func (LoggingIn) Name() string { return "loggingIn" }

// LoggedIn carries the established session until logout.
type LoggedIn struct {
	Session entity.AuthSession
}

func (LoggedIn) Name() string { return "loggedIn" }

// ResetRequested is the first reset step: the user enters an identifier
// and asks for a verification code. Identifier is empty until
// RequestCode records it.
type ResetRequested struct {
	Method     entity.AuthMethod
	Identifier string
}

func (ResetRequested) Name() string { return "resetRequested" }

// ResetCodeVerified means the code checked out; the user may now set a
// new password for the identifier.
type ResetCodeVerified struct {
	Method     entity.AuthMethod
	Identifier string
}

func (ResetCodeVerified) Name() string { return "resetCodeVerified" }

// ResetComplete is the terminal reset step; the only way out is back to
// the login screen.
type ResetComplete struct{}

func (ResetComplete) Name() string { return "resetComplete" }
