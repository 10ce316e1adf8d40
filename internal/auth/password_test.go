package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("expected match")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password matched")
	}
	if CheckPassword("", "") {
		t.Error("empty hash matched")
	}
}
