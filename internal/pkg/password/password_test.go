package password_test

import (
	"testing"

	"github.com/coursebase/coursebase-api/internal/pkg/password"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("plaintext was not hashed")
	}
	if !password.Verify("s3cret-pass", hash) {
		t.Fatal("verify rejected correct password")
	}
	if password.Verify("wrong", hash) {
		t.Fatal("verify accepted wrong password")
	}
}

func TestHashIdempotentOnHashedInput(t *testing.T) {
	hash, err := password.Hash("initial-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	again, err := password.Hash(hash)
	if err != nil {
		t.Fatalf("re-hash failed: %v", err)
	}
	if again != hash {
		t.Fatal("already-hashed value was hashed again")
	}
	if !password.Verify("initial-password", again) {
		t.Fatal("original password no longer verifies")
	}
}

func TestIsHashed(t *testing.T) {
	hash, _ := password.Hash("abc")
	if !password.IsHashed(hash) {
		t.Fatal("bcrypt hash not recognized")
	}
	if password.IsHashed("plain text password") {
		t.Fatal("plaintext misdetected as hash")
	}
	if password.IsHashed("$2a$ but way too short") {
		t.Fatal("short string with bcrypt prefix misdetected")
	}
}
