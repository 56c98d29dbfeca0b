// Command gocred-keygen prints a random key, base64url encoded without
// padding, suitable for SERVICE_PWD_KEY and SERVICE_TOKEN_KEY.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
)

const minKeyBytes = 32

func main() {
	size := flag.Int("bytes", 64, "key size in bytes (minimum 32)")
	quiet := flag.Bool("q", false, "print only the encoded key")
	flag.Parse()

	key, err := generateKey(rand.Reader, *size)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	encoded := base64.RawURLEncoding.EncodeToString(key)
	if *quiet {
		fmt.Println(encoded)
		return
	}

	fmt.Printf("\nGenerated %d-byte key:\n%v\n", len(key), key)
	fmt.Printf("\nKey base64url encoded:\n%s\n", encoded)
}

func generateKey(r io.Reader, size int) ([]byte, error) {
	if size < minKeyBytes {
		return nil, fmt.Errorf("key size must be at least %d bytes, got %d", minKeyBytes, size)
	}

	key := make([]byte, size)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return key, nil
}
