package security

import "testing"

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "correct-horse") {
		t.Fatal("valid password rejected")
	}
	if CheckPassword(hash, "wrong-horse") {
		t.Fatal("invalid password accepted")
	}
}

func TestPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestNewToken(t *testing.T) {
	a, err := NewToken(32)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	b, err := NewToken(32)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if a == b {
		t.Fatal("tokens not unique")
	}
	if len(a) < 40 {
		t.Fatalf("token too short: %d", len(a))
	}
}
