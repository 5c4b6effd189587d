// Package auth models login, method selection and the multi-step
// password reset as one explicit state machine. The richer machine
// replaces the ad hoc logged-in boolean plus reset step counter that
// drift out of sync when kept separately.
package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/localmart/marketplace/internal/entity"
)

const minPasswordLen = 8

// Flow drives the auth state machine for one user session. Transitions
// are serialized: while a provider call is pending no second one is
// accepted, and Cancel discards the effect of any late response.
type Flow struct {
	provider Provider

	mu       sync.Mutex
	state    State
	inFlight bool
	gen      uint64
}

// NewFlow creates a flow in the LoggedOut state.
func NewFlow(provider Provider) *Flow {
	return &Flow{provider: provider, state: LoggedOut{}}
}

// State returns the current variant.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Session returns the active session, if any.
func (f *Flow) Session() (entity.AuthSession, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.state.(LoggedIn); ok {
		return s.Session, true
	}
	return entity.AuthSession{}, false
}

// SelectMethod picks (or toggles) the credential channel on the login
// screen. No provider call is involved.
func (f *Flow) SelectMethod(method entity.AuthMethod) error {
	if method != entity.MethodEmail && method != entity.MethodPhone {
		return &entity.ValidationError{Field: "method", Reason: "must be email or phone"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrAttemptInFlight
	}
	switch f.state.(type) {
	case LoggedOut, LoggingIn:
		f.state = LoggingIn{Method: method}
		return nil
	default:
		return ErrInvalidTransition
	}
}

// SubmitCredentials attempts a login through the provider. On success
// the flow moves to LoggedIn; on rejection it stays in LoggingIn and
// the provider error is surfaced for an inline retry prompt.
func (f *Flow) SubmitCredentials(ctx context.Context, identifier, secret string) error {
	gen, st, err := f.begin()
	if err != nil {
		return err
	}
	cur, ok := st.(LoggingIn)
	if !ok {
		f.abort(gen)
		return ErrInvalidTransition
	}

	verr := f.provider.VerifyCredentials(ctx, cur.Method, identifier, secret)
	f.finish(gen, func() {
		if verr != nil {
			return
		}
		f.state = LoggedIn{Session: entity.AuthSession{
			Method:          cur.Method,
			Identifier:      identifier,
			IsAuthenticated: true,
		}}
	})
	if verr != nil {
		slog.Info("Login rejected", "method", cur.Method, "err", verr)
	}
	return verr
}

// FederatedLogin signs in through an external identity provider,
// bypassing the credential form.
func (f *Flow) FederatedLogin(ctx context.Context, providerName string) error {
	gen, st, err := f.begin()
	if err != nil {
		return err
	}
	switch st.(type) {
	case LoggedOut, LoggingIn:
	default:
		f.abort(gen)
		return ErrInvalidTransition
	}

	identifier, verr := f.provider.FederatedLogin(ctx, providerName)
	f.finish(gen, func() {
		if verr != nil {
			return
		}
		f.state = LoggedIn{Session: entity.AuthSession{
			Method:          entity.MethodFederated,
			Identifier:      identifier,
			IsAuthenticated: true,
		}}
	})
	return verr
}

// ForgotPassword enters the reset flow from the login screen. The
// identifier is collected in the next step.
func (f *Flow) ForgotPassword() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrAttemptInFlight
	}
	cur, ok := f.state.(LoggingIn)
	if !ok {
		return ErrInvalidTransition
	}
	f.state = ResetRequested{Method: cur.Method}
	return nil
}

// RequestCode asks the provider to dispatch a verification code and
// records the identifier it was sent to. The flow stays in
// ResetRequested until VerifyCode succeeds.
func (f *Flow) RequestCode(ctx context.Context, identifier string) error {
	if identifier == "" {
		return &entity.ValidationError{Field: "identifier", Reason: "must not be empty"}
	}

	gen, st, err := f.begin()
	if err != nil {
		return err
	}
	cur, ok := st.(ResetRequested)
	if !ok {
		f.abort(gen)
		return ErrInvalidTransition
	}

	verr := f.provider.RequestResetCode(ctx, cur.Method, identifier)
	f.finish(gen, func() {
		if verr != nil {
			return
		}
		f.state = ResetRequested{Method: cur.Method, Identifier: identifier}
	})
	return verr
}

// VerifyCode checks the dispatched code. A wrong code keeps the flow in
// ResetRequested with ErrInvalidCode surfaced; a valid one advances to
// ResetCodeVerified.
func (f *Flow) VerifyCode(ctx context.Context, code string) error {
	gen, st, err := f.begin()
	if err != nil {
		return err
	}
	cur, ok := st.(ResetRequested)
	if !ok {
		f.abort(gen)
		return ErrInvalidTransition
	}
	if cur.Identifier == "" {
		// No code was ever dispatched, so whatever the user typed
		// cannot match. Stay put and let them request one.
		f.abort(gen)
		return ErrInvalidCode
	}

	verr := f.provider.VerifyResetCode(ctx, cur.Identifier, code)
	f.finish(gen, func() {
		if verr != nil {
			return
		}
		f.state = ResetCodeVerified{Method: cur.Method, Identifier: cur.Identifier}
	})
	return verr
}

// SetNewPassword finishes the reset. Mismatched or weak passwords fail
// locally without a provider call, leaving the flow in
// ResetCodeVerified for another try.
func (f *Flow) SetNewPassword(ctx context.Context, password, confirm string) error {
	gen, st, err := f.begin()
	if err != nil {
		return err
	}
	cur, ok := st.(ResetCodeVerified)
	if !ok {
		f.abort(gen)
		return ErrInvalidTransition
	}
	if password != confirm {
		f.abort(gen)
		return ErrPasswordMismatch
	}
	if len(password) < minPasswordLen {
		f.abort(gen)
		return ErrWeakPassword
	}

	verr := f.provider.SetPassword(ctx, cur.Identifier, password)
	f.finish(gen, func() {
		if verr != nil {
			return
		}
		f.state = ResetComplete{}
	})
	return verr
}

// ReturnToLogin leaves the completed reset back to the logged-out
// login surface.
func (f *Flow) ReturnToLogin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.state.(ResetComplete); !ok {
		return ErrInvalidTransition
	}
	f.state = LoggedOut{}
	return nil
}

// Cancel backs out of the reset flow (or abandons a pending login
// attempt), discarding the ephemeral reset data and the effect of any
// provider response still in flight.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch st := f.state.(type) {
	case ResetRequested:
		f.discardLocked()
		f.state = LoggingIn{Method: st.Method}
	case ResetCodeVerified:
		f.discardLocked()
		f.state = LoggingIn{Method: st.Method}
	case ResetComplete:
		f.discardLocked()
		f.state = LoggingIn{Method: entity.MethodEmail}
	case LoggingIn:
		f.discardLocked()
	default:
		return ErrInvalidTransition
	}
	return nil
}

// Logout ends the session.
func (f *Flow) Logout() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.state.(LoggedIn); !ok {
		return ErrInvalidTransition
	}
	f.discardLocked()
	f.state = LoggedOut{}
	return nil
}

// begin claims the single in-flight slot and snapshots the state the
// provider call is made from.
func (f *Flow) begin() (uint64, State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return 0, nil, ErrAttemptInFlight
	}
	f.inFlight = true
	return f.gen, f.state, nil
}

// finish releases the slot and applies the transition, unless the
// attempt was cancelled while the call was out. A stale generation
// means Cancel or Logout already discarded this attempt; its response
// must not touch state.
func (f *Flow) finish(gen uint64, apply func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return
	}
	f.inFlight = false
	apply()
}

// abort releases the slot without applying anything.
func (f *Flow) abort(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return
	}
	f.inFlight = false
}

// discardLocked invalidates any pending provider call. Callers hold mu.
func (f *Flow) discardLocked() {
	f.gen++
	f.inFlight = false
}
