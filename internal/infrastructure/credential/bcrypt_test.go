package credential

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier(t *testing.T) {
	v := NewBcryptVerifier(bcrypt.MinCost)
	hash, err := v.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !v.Verify("s3cret", hash) {
		t.Fatal("correct password rejected")
	}
	if v.Verify("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}
