package token_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goCred/token"
)

func ExampleManager() {
	m, err := token.NewManager(token.Config{
		Key: []byte("example-token-key-please-use-64-random-bytes"),
		TTL: 30 * time.Minute,
	})
	if err != nil {
		panic(err)
	}

	issued, err := m.Issue("demo1", "per-user-token-salt")
	if err != nil {
		panic(err)
	}

	parsed, err := m.ParseAndValidate(issued.String(), "per-user-token-salt")
	fmt.Println(parsed.Ident, err)

	_, err = m.ParseAndValidate(issued.String(), "rotated-salt")
	fmt.Println(errors.Is(err, token.ErrSignatureMismatch))
	// Output:
	// demo1 <nil>
	// true
}

func ExampleParse() {
	t, err := token.Parse("ZngtaWRlbnQtMDE.MjAyNS0wNy0wMVQxMjowMDowMFo.some-sign-b64u-encoded")
	if err != nil {
		panic(err)
	}
	fmt.Println(t.Ident, t.Exp)
	// Output: fx-ident-01 2025-07-01T12:00:00Z
}
