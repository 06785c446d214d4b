package auth

import (
	"testing"
	"time"

	"github.com/matnas-digital/questionnaire-service/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:               "7e6f5a80-1111-4222-8333-444455556666",
		Email:            "manager@example.org",
		FullName:         "Test Manager",
		Role:             models.RoleManager,
		OrganizationName: "Example Org",
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if claims.UserID != "7e6f5a80-1111-4222-8333-444455556666" {
		t.Errorf("unexpected user id: %s", claims.UserID)
	}
	if claims.Email != "manager@example.org" {
		t.Errorf("unexpected email: %s", claims.Email)
	}
	if claims.Role != models.RoleManager {
		t.Errorf("unexpected role: %s", claims.Role)
	}
	if claims.FullName != "Test Manager" {
		t.Errorf("unexpected full name: %s", claims.FullName)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := tm.Verify(token); err == nil {
		t.Error("expected expired token to fail verification")
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).Verify(token); err == nil {
		t.Error("expected token signed with another secret to fail")
	}
}

func TestNewInviteToken(t *testing.T) {
	first, err := NewInviteToken()
	if err != nil {
		t.Fatalf("NewInviteToken failed: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(first))
	}

	second, err := NewInviteToken()
	if err != nil {
		t.Fatalf("NewInviteToken failed: %v", err)
	}
	if first == second {
		t.Error("expected unique tokens")
	}
}
