package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/workforce-tasks/internal/config"
	"github.com/spec-kit/workforce-tasks/internal/domain"
)

func newAuthFixture() (*AuthService, *stubIdentityRepo, *stubTokenRepo) {
	identities := newStubIdentityRepo()
	tokens := newStubTokenRepo()
	cfg := config.Config{Auth: config.AuthConfig{TokenSecret: "secret", BcryptCost: bcrypt.MinCost}}
	return NewAuthService(cfg, AuthDependencies{IdentityRepo: identities, TokenRepo: tokens}), identities, tokens
}

func TestAuthService_RegisterEmployer_Success(t *testing.T) {
	svc, _, _ := newAuthFixture()

	identity, err := svc.RegisterEmployer(context.Background(), "111", "a")
	if err != nil {
		t.Fatalf("RegisterEmployer returned error: %v", err)
	}
	if identity.Role != domain.RoleEmployer {
		t.Fatalf("unexpected role: %s", identity.Role)
	}
	if identity.EmployerID != nil {
		t.Fatalf("employer must not have an employer reference")
	}
	if identity.PasswordHash == "a" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte("a")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_RegisterEmployer_Validation(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.RegisterEmployer(context.Background(), "", "a")
	requireDomainCode(t, err, "VALIDATION_FAILED")

	_, err = svc.RegisterEmployer(context.Background(), "111", "")
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestAuthService_RegisterEmployer_DuplicatePhone(t *testing.T) {
	svc, identities, _ := newAuthFixture()

	if _, err := svc.RegisterEmployer(context.Background(), "111", "a"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.RegisterEmployer(context.Background(), "111", "b")
	requireDomainCode(t, err, "CONFLICT")
	if len(identities.identities) != 1 {
		t.Fatalf("duplicate register must not create an identity, have %d", len(identities.identities))
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _ := newAuthFixture()

	registered, err := svc.RegisterEmployer(context.Background(), "111", "a")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	identity, token, err := svc.Login(context.Background(), "111", "a")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if identity.ID != registered.ID {
		t.Fatalf("unexpected identity: %s", identity.ID)
	}

	claims, err := svc.TokenManager().Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.IdentityID != registered.ID {
		t.Fatalf("token bound to %s, want %s", claims.IdentityID, registered.ID)
	}
}

func TestAuthService_Login_Idempotent(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.RegisterEmployer(context.Background(), "111", "a"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, first, err := svc.Login(context.Background(), "111", "a")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	_, second, err := svc.Login(context.Background(), "111", "a")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if first != second {
		t.Fatalf("logins minted two tokens: %q vs %q", first, second)
	}
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.RegisterEmployer(context.Background(), "111", "a"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, unknownErr := svc.Login(context.Background(), "999", "a")
	requireDomainCode(t, unknownErr, "INVALID_CREDENTIALS")

	_, _, badPassErr := svc.Login(context.Background(), "111", "wrong")
	requireDomainCode(t, badPassErr, "INVALID_CREDENTIALS")

	// an attacker must not be able to tell the two cases apart
	if unknownErr.Error() != badPassErr.Error() {
		t.Fatalf("login failures are distinguishable: %q vs %q", unknownErr, badPassErr)
	}
}
