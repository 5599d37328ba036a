package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("tenant123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !Verify("tenant123", hash) {
		t.Fatal("correct password rejected")
	}
	if Verify("wrong-password", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("12345") {
		t.Fatal("password below minimum length accepted")
	}
	if !ValidatePassword("123456") {
		t.Fatal("password at minimum length rejected")
	}
}

func TestHashTokenIsStableAndOpaque(t *testing.T) {
	a := HashToken("refresh-token-1")
	b := HashToken("refresh-token-1")
	if a != b {
		t.Fatal("same token must hash to the same key")
	}
	if a == HashToken("refresh-token-2") {
		t.Fatal("different tokens must hash differently")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex SHA-256 digest, got %d chars", len(a))
	}
}
