package main

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	a, err := generateKey(rand.Reader, 64)
	if err != nil {
		t.Fatalf("generateKey error: %v", err)
	}
	b, err := generateKey(rand.Reader, 64)
	if err != nil {
		t.Fatalf("generateKey error: %v", err)
	}
	if len(a) != 64 || bytes.Equal(a, b) {
		t.Fatal("expected two distinct 64-byte keys")
	}
}

func TestGenerateKeyRejectsShortSize(t *testing.T) {
	if _, err := generateKey(rand.Reader, 16); err == nil {
		t.Fatal("expected error for a 16-byte key")
	}
}

func TestGenerateKeyShortReader(t *testing.T) {
	if _, err := generateKey(bytes.NewReader(make([]byte, 10)), 32); err == nil {
		t.Fatal("expected error from an exhausted reader")
	}
}
