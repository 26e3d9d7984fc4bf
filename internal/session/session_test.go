package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dhru-Will/dayflow-hrms/internal/roles"
	"github.com/Dhru-Will/dayflow-hrms/internal/snapshot"
)

func newAuthority() (*Authority, *snapshot.Memory) {
	store := snapshot.NewMemory()
	return NewAuthority(SeedDirectory(), store), store
}

func TestLoginResolvesSeedUsers(t *testing.T) {
	ctx := context.Background()
	a, _ := newAuthority()
	a.Restore(ctx)

	tests := []struct {
		loginID string
		want    roles.Role
	}{
		{"ADM001", roles.Admin},
		{"HR001", roles.HR},
		{"EMP001", roles.Employee},
		{"emp001", roles.Employee}, // case-insensitive
		{" emp001 ", roles.Employee},
	}
	for _, tt := range tests {
		u, err := a.Login(ctx, tt.loginID, "anything")
		if err != nil {
			t.Fatalf("Login(%q): %v", tt.loginID, err)
		}
		if u.Role != tt.want {
			t.Errorf("Login(%q) role = %v, want %v", tt.loginID, u.Role, tt.want)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	a, _ := newAuthority()
	a.Restore(ctx)

	for _, tt := range []struct{ loginID, password string }{
		{"emp001", ""},
		{"nope", "x"},
		{"", "x"},
	} {
		if _, err := a.Login(ctx, tt.loginID, tt.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) = %v, want ErrInvalidCredentials", tt.loginID, tt.password, err)
		}
	}
	if a.Current().IsAuthenticated() {
		t.Error("failed logins must not authenticate the session")
	}
}

// brokenStore rejects every write, keeping loads and clears working.
type brokenStore struct {
	snapshot.Store
	saveErr error
}

func (b brokenStore) Save(context.Context, string, any) error { return b.saveErr }

func TestLoginLeavesSessionUnchangedWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	saveErr := errors.New("redis down")
	a := NewAuthority(SeedDirectory(), brokenStore{Store: snapshot.NewMemory(), saveErr: saveErr})
	a.Restore(ctx)

	if _, err := a.Login(ctx, "EMP001", "pw"); !errors.Is(err, saveErr) {
		t.Fatalf("Login = %v, want the store error", err)
	}
	if a.Current().IsAuthenticated() {
		t.Error("session authenticated after a failed Login")
	}
	if a.CurrentRole() != roles.Unknown {
		t.Errorf("CurrentRole after failed Login = %v, want Unknown", a.CurrentRole())
	}
}

func TestRestoreFromPersistedIdentity(t *testing.T) {
	ctx := context.Background()
	dir := SeedDirectory()
	store := snapshot.NewMemory()

	first := NewAuthority(dir, store)
	first.Restore(ctx)
	if _, err := first.Login(ctx, "HR001", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// A fresh authority over the same store picks the identity back up.
	second := NewAuthority(dir, store)
	s := second.Restore(ctx)
	if !s.IsAuthenticated() {
		t.Fatal("Restore: session not authenticated")
	}
	if s.User.LoginID != "HR001" {
		t.Errorf("restored user = %q, want HR001", s.User.LoginID)
	}
	if s.IsLoading {
		t.Error("session still loading after Restore")
	}
}

func TestRestoreNeverFailsOnGarbage(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{broken", `"a string"`, `{"id":"","role":""}`, `{"role":"WIZARD"}`, "null"} {
		store := snapshot.NewMemory()
		store.Put("auth_user", []byte(raw))

		a := NewAuthority(SeedDirectory(), store)
		s := a.Restore(ctx)
		if s.IsAuthenticated() || s.IsLoading {
			t.Errorf("Restore with blob %q: got %+v, want resolved unauthenticated session", raw, s)
		}

		// The bad blob must have been cleared.
		var u User
		if err := store.Load(ctx, "auth_user", &u); !errors.Is(err, snapshot.ErrNoSnapshot) {
			t.Errorf("blob %q not cleared after Restore: %v", raw, err)
		}
	}
}

func TestLoadingResolvesExactlyOnce(t *testing.T) {
	ctx := context.Background()
	a, store := newAuthority()

	if !a.Current().IsLoading {
		t.Fatal("new authority must start loading")
	}
	a.Restore(ctx)
	if a.Current().IsLoading {
		t.Fatal("Restore did not resolve the loading phase")
	}

	// Writing an identity behind the authority's back and restoring again
	// must not re-resolve: the first resolution is final.
	if err := store.Save(ctx, "auth_user", User{ID: "1", LoginID: "ADM001", Role: roles.Admin}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s := a.Restore(ctx); s.IsAuthenticated() {
		t.Error("second Restore transitioned the session")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	ctx := context.Background()
	a, store := newAuthority()
	a.Restore(ctx)
	if _, err := a.Login(ctx, "ADM001", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := a.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := a.Logout(ctx); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if a.Current().IsAuthenticated() {
		t.Error("session authenticated after Logout")
	}
	if a.CurrentRole() != roles.Unknown {
		t.Errorf("CurrentRole after Logout = %v, want Unknown", a.CurrentRole())
	}
	var u User
	if err := store.Load(ctx, "auth_user", &u); !errors.Is(err, snapshot.ErrNoSnapshot) {
		t.Errorf("identity still persisted after Logout: %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	u := User{ID: "3", LoginID: "EMP001", Role: roles.Employee, Name: "John Doe", Email: "john.doe@dayflow.com"}
	pair, err := IssueTokens(u, "dayflow", "secret", 15*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("IssueTokens: %v", err)
	}

	claims, err := ParseToken(pair.AccessToken, "secret", "dayflow")
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	got, err := claims.User()
	if err != nil {
		t.Fatalf("claims.User: %v", err)
	}
	if got != u {
		t.Errorf("round-tripped user = %+v, want %+v", got, u)
	}

	if _, err := ParseToken(pair.AccessToken, "wrong-key", "dayflow"); err == nil {
		t.Error("ParseToken accepted a token signed with another key")
	}
	if _, err := ParseToken(pair.AccessToken, "secret", "other-issuer"); err == nil {
		t.Error("ParseToken accepted a token from another issuer")
	}
}
