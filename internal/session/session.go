package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Dhru-Will/dayflow-hrms/internal/roles"
	"github.com/Dhru-Will/dayflow-hrms/internal/snapshot"
)

// ErrInvalidCredentials is returned when a login id does not resolve or the
// password is empty. The same error covers both so callers cannot probe for
// valid login ids.
var ErrInvalidCredentials = errors.New("session: invalid credentials")

// identityKey is the snapshot key holding the authenticated user.
const identityKey = "auth_user"

// User is the authenticated identity.
type User struct {
	ID      string     `json:"id"`
	LoginID string     `json:"login_id"`
	Role    roles.Role `json:"role"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
}

// Phase is the lifecycle stage of a session.
type Phase int

const (
	// PhaseLoading holds until the first Restore resolves it, exactly once.
	PhaseLoading Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticated
)

// Session is a read-only view of the current authentication state.
type Session struct {
	User      *User
	IsLoading bool
}

// IsAuthenticated reports whether a user is present.
func (s Session) IsAuthenticated() bool { return s.User != nil }

// Directory resolves login ids to identities.
type Directory interface {
	Lookup(loginID string) (User, bool)
}

// Authority owns the authenticated identity for one logical session and
// answers role and visibility questions. It persists the identity through a
// snapshot store so the session survives a process restart.
type Authority struct {
	dir   Directory
	store snapshot.Store

	mu    sync.Mutex
	phase Phase
	user  *User
}

// NewAuthority creates an authority in the Loading phase. Call Restore once
// at startup to resolve it.
func NewAuthority(dir Directory, store snapshot.Store) *Authority {
	return &Authority{dir: dir, store: store, phase: PhaseLoading}
}

// Restore reconstructs the session from the persisted identity. It never
// fails on malformed persisted data: garbage is discarded, the key cleared,
// and an unauthenticated session returned. Only the first call resolves the
// Loading phase; later calls report the current session unchanged.
func (a *Authority) Restore(ctx context.Context) Session {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.phase != PhaseLoading {
		return a.sessionLocked()
	}

	var u User
	err := a.store.Load(ctx, identityKey, &u)
	switch {
	case err == nil && u.ID != "" && u.Role != roles.Unknown:
		a.user = &u
		a.phase = PhaseAuthenticated
	case err == nil || errors.Is(err, snapshot.ErrCorruptSnapshot):
		// Decoded but incomplete, or corrupt. Either way drop it.
		_ = a.store.Clear(ctx, identityKey)
		a.phase = PhaseUnauthenticated
	default:
		// Absent or store unavailable: start unauthenticated.
		a.phase = PhaseUnauthenticated
	}
	return a.sessionLocked()
}

// Login authenticates a login attempt. The login id is matched
// case-insensitively against the directory; any non-empty password is
// accepted once the id resolves. The identity is persisted first and the
// session transitions only after the write succeeds, so a failed Login
// leaves the session exactly as it was.
func (a *Authority) Login(ctx context.Context, loginID, password string) (User, error) {
	loginID = strings.ToUpper(strings.TrimSpace(loginID))
	if loginID == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	u, ok := a.dir.Lookup(loginID)
	if !ok {
		return User{}, ErrInvalidCredentials
	}

	if err := a.store.Save(ctx, identityKey, u); err != nil {
		return User{}, err
	}

	a.mu.Lock()
	a.user = &u
	a.phase = PhaseAuthenticated
	a.mu.Unlock()
	return u, nil
}

// Logout clears the session identity and its persisted copy. Idempotent.
func (a *Authority) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.user = nil
	a.phase = PhaseUnauthenticated
	a.mu.Unlock()
	return a.store.Clear(ctx, identityKey)
}

// Current returns the session view.
func (a *Authority) Current() Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionLocked()
}

// CurrentRole returns the authenticated user's role, or roles.Unknown.
func (a *Authority) CurrentRole() roles.Role {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return roles.Unknown
	}
	return a.user.Role
}

func (a *Authority) sessionLocked() Session {
	s := Session{IsLoading: a.phase == PhaseLoading}
	if a.user != nil {
		u := *a.user
		s.User = &u
	}
	return s
}
