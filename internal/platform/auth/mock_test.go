package auth

import (
	"context"
	"errors"
	"testing"
)

func TestMockVerifierReturnsUser(t *testing.T) {
	user := &FirebaseUser{
		UID:           "mock-user-456",
		Email:         "mock@example.com",
		EmailVerified: true,
	}
	verifier := &MockVerifier{User: user}

	got, err := verifier.Verify(context.Background(), "any-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UID != user.UID {
		t.Fatalf("expected UID %s, got %s", user.UID, got.UID)
	}
	if got.Email != user.Email {
		t.Fatalf("expected email %s, got %s", user.Email, got.Email)
	}
}

func TestMockVerifierErrorTakesPrecedence(t *testing.T) {
	user := &FirebaseUser{UID: "user-123"}
	verifier := &MockVerifier{User: user, Error: ErrInvalidToken}

	_, err := verifier.Verify(context.Background(), "token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken when both User and Error are set, got %v", err)
	}
}

func TestTestUserDefaults(t *testing.T) {
	user := TestUser()

	if user.UID != "test-user-123" {
		t.Fatalf("expected UID test-user-123, got %s", user.UID)
	}
	if !user.EmailVerified {
		t.Fatal("expected EmailVerified to be true")
	}
	if user.Admin {
		t.Fatal("expected plain test user without admin claim")
	}
}

func TestTestAdminCarriesClaim(t *testing.T) {
	admin := TestAdmin()

	if !admin.Admin {
		t.Fatal("expected admin claim to be set")
	}
	if !admin.EmailVerified {
		t.Fatal("expected EmailVerified to be true")
	}
}
