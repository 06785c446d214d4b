package auth

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-passw0rd")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "" || hash == "s3cret-passw0rd" {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}

	if !CheckPassword(hash, "s3cret-passw0rd") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("expected non-matching password to fail")
	}
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	first, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if first == second {
		t.Error("expected distinct hashes for the same input")
	}
}
