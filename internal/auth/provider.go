package auth

import (
	"context"

	"github.com/localmart/marketplace/internal/entity"
)

// Provider is the external auth collaborator. The flow models only the
// state transition contract; credential verification, code dispatch and
// password storage happen behind this interface.
type Provider interface {
	// VerifyCredentials checks a login attempt. A rejected attempt
	// returns ErrInvalidCredentials.
	VerifyCredentials(ctx context.Context, method entity.AuthMethod, identifier, secret string) error

	// FederatedLogin completes a login through an external identity
	// provider and returns the resolved account identifier.
	FederatedLogin(ctx context.Context, provider string) (string, error)

	// RequestResetCode dispatches a verification code to the identifier
	// through the notification channel for its method.
	RequestResetCode(ctx context.Context, method entity.AuthMethod, identifier string) error

	// VerifyResetCode checks a previously dispatched code. A wrong code
	// returns ErrInvalidCode.
	VerifyResetCode(ctx context.Context, identifier, code string) error

	// SetPassword stores a new password after a verified reset.
	SetPassword(ctx context.Context, identifier, newPassword string) error
}
