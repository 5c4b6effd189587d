package service

import (
	"sync"

	"github.com/localmart/marketplace/internal/auth"
)

// AuthService hands out one auth flow per session. Each flow serializes
// its own provider calls; sessions never share state.
type AuthService struct {
	provider auth.Provider

	mu    sync.Mutex
	flows map[string]*auth.Flow
}

func NewAuthService(provider auth.Provider) *AuthService {
	return &AuthService{
		provider: provider,
		flows:    make(map[string]*auth.Flow),
	}
}

// Flow returns the session's state machine, creating it in LoggedOut
// on first use.
func (s *AuthService) Flow(sessionID string) *auth.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[sessionID]
	if !ok {
		f = auth.NewFlow(s.provider)
		s.flows[sessionID] = f
	}
	return f
}
