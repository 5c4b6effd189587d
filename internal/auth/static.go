package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/localmart/marketplace/internal/entity"
)

// StaticProvider is an in-memory Provider for local development and
// tests, mirroring how the backend runs against seeded data before a
// real identity service is wired in. Reset codes are logged instead of
// dispatched.
type StaticProvider struct {
	mu        sync.Mutex
	passwords map[string]string
	codes     map[string]string
}

// NewStaticProvider creates a provider with the given identifier to
// password seed accounts.
func NewStaticProvider(accounts map[string]string) *StaticProvider {
	passwords := make(map[string]string, len(accounts))
	for id, pw := range accounts {
		passwords[id] = pw
	}
	return &StaticProvider{
		passwords: passwords,
		codes:     make(map[string]string),
	}
}

func (p *StaticProvider) VerifyCredentials(ctx context.Context, method entity.AuthMethod, identifier, secret string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pw, ok := p.passwords[identifier]; ok && pw == secret {
		return nil
	}
	return ErrInvalidCredentials
}

func (p *StaticProvider) FederatedLogin(ctx context.Context, provider string) (string, error) {
	// No real identity provider locally; every federated attempt maps
	// to a deterministic dev account.
	id := fmt.Sprintf("dev@%s.local", provider)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.passwords[id]; !ok {
		p.passwords[id] = ""
	}
	return id, nil
}

func (p *StaticProvider) RequestResetCode(ctx context.Context, method entity.AuthMethod, identifier string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.passwords[identifier]; !ok {
		// Do not reveal which identifiers exist; dispatch is a no-op.
		slog.Info("Reset requested for unknown identifier", "method", method)
		return nil
	}
	p.codes[identifier] = "000000"
	slog.Info("Reset code dispatched", "method", method, "identifier", identifier)
	return nil
}

func (p *StaticProvider) VerifyResetCode(ctx context.Context, identifier, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if want, ok := p.codes[identifier]; ok && want == code {
		return nil
	}
	return ErrInvalidCode
}

func (p *StaticProvider) SetPassword(ctx context.Context, identifier, newPassword string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.passwords[identifier] = newPassword
	delete(p.codes, identifier)
	return nil
}

// SeedCode plants a known verification code, used by tests.
func (p *StaticProvider) SeedCode(identifier, code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codes[identifier] = code
}
