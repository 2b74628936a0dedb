package service

import (
	"context"
	"errors"
	"testing"

	"lon-tracker/internal/config"
	"lon-tracker/internal/repository"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	repos := repository.NewRepositories()
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     1,
		RefreshExpiry: 7,
	}
	return NewAuthService(cfg, repos.UserRepo)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, access, refresh, err := svc.Register(ctx, "Alice", "alice@test.local", "supersecret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" || access == "" || refresh == "" {
		t.Fatal("Register returned empty user or tokens")
	}
	if user.Password == "supersecret" {
		t.Error("password stored in clear")
	}

	if _, _, _, err := svc.Register(ctx, "Alice Again", "alice@test.local", "supersecret"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate register err = %v, want ErrUserExists", err)
	}

	if _, _, _, err := svc.Login(ctx, "alice@test.local", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@test.local", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}

	loggedIn, _, _, err := svc.Login(ctx, "alice@test.local", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Error("Login returned a different user")
	}
}

func TestAuthTokenRoundTrip(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, access, _, err := svc.Register(ctx, "Bob", "bob@test.local", "supersecret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := svc.ValidateToken(access)
	if err != nil || !token.Valid {
		t.Fatalf("ValidateToken: %v (valid=%v)", err, token != nil && token.Valid)
	}
	userID, err := svc.GetUserIDFromToken(token)
	if err != nil {
		t.Fatalf("GetUserIDFromToken: %v", err)
	}
	if userID != user.ID {
		t.Errorf("userID = %q, want %q", userID, user.ID)
	}

	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Error("ValidateToken accepted garbage")
	}
}

func TestAuthRefreshRotation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, refresh, err := svc.Register(ctx, "Carol", "carol@test.local", "supersecret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, newRefresh, err := svc.RefreshToken(ctx, refresh)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if newRefresh == refresh {
		t.Error("refresh token not rotated")
	}

	// The old token is single use.
	if _, _, err := svc.RefreshToken(ctx, refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("reused token err = %v, want ErrInvalidToken", err)
	}

	// Logout revokes the current token.
	if err := svc.Logout(ctx, newRefresh); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, _, err := svc.RefreshToken(ctx, newRefresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("post-logout err = %v, want ErrInvalidToken", err)
	}
}
