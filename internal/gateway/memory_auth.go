package gateway

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/chiya/internal/utils"
)

// MemoryAuth is an in-process AuthProvider with a fixed staff list.
type MemoryAuth struct {
	secret string
	ttl    time.Duration

	mu      sync.RWMutex
	staff   map[string]memoryStaff
	revoked map[string]time.Time

	observers *authObservers
}

type memoryStaff struct {
	identity Identity
	hash     string
}

// NewMemoryAuth returns an empty MemoryAuth.
func NewMemoryAuth(secret string, ttl time.Duration) *MemoryAuth {
	return &MemoryAuth{
		secret:    secret,
		ttl:       ttl,
		staff:     make(map[string]memoryStaff),
		revoked:   make(map[string]time.Time),
		observers: newAuthObservers(),
	}
}

// AddStaff registers a staff account.
func (a *MemoryAuth) AddStaff(email, password, name string) (Identity, error) {
	hash, err := hashStaffPassword(password)
	if err != nil {
		return Identity{}, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	identity := Identity{StaffID: uuid.New(), Email: email, DisplayName: name}

	a.mu.Lock()
	a.staff[email] = memoryStaff{identity: identity, hash: hash}
	a.mu.Unlock()

	return identity, nil
}

func (a *MemoryAuth) SignIn(ctx context.Context, email, password string) (Session, error) {
	a.mu.RLock()
	account, ok := a.staff[strings.ToLower(strings.TrimSpace(email))]
	a.mu.RUnlock()

	if !ok || !passwordMatches(account.hash, password) {
		return Session{}, ErrInvalidCredentials
	}

	token, claims, err := utils.GenerateToken(a.secret, account.identity.StaffID, a.ttl)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return Session{Identity: account.identity, Token: token, ExpiresAt: claims.ExpiresAt}, nil
}

func (a *MemoryAuth) SignOut(ctx context.Context, token string) error {
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		return ErrUnauthenticated
	}

	a.mu.Lock()
	a.revoked[claims.TokenID] = claims.ExpiresAt
	a.mu.Unlock()

	a.observers.signal(claims.TokenID)
	return nil
}

func (a *MemoryAuth) Identify(ctx context.Context, token string) (Identity, error) {
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if _, gone := a.revoked[claims.TokenID]; gone {
		return Identity{}, ErrUnauthenticated
	}
	for _, account := range a.staff {
		if account.identity.StaffID == claims.StaffID {
			return account.identity, nil
		}
	}
	return Identity{}, ErrUnauthenticated
}

func (a *MemoryAuth) ObserveAuthState(token string, onChange func(*Identity)) func() {
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		onChange(nil)
		return func() {}
	}
	return a.observers.observe(claims.TokenID, func() (Identity, error) {
		return a.Identify(context.Background(), token)
	}, onChange)
}
