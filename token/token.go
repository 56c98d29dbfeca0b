package token

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
)

// Token is the decoded form of a session token. Ident and Exp hold clear
// text; Sign is kept in its base64url wire form.
type Token struct {
	Ident string
	Exp   string
	Sign  string
}

// segmentParser decodes base64url segments without padding and rejects
// non-canonical trailing bits.
var segmentParser = jwt.NewParser(jwt.WithStrictDecoding())

// Parse decodes a wire token. It fails unless there are exactly three
// segments and the first two decode to valid UTF-8.
func Parse(s string) (Token, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Token{}, ErrInvalidFormat
	}

	ident, err := decodeText(parts[0])
	if err != nil {
		return Token{}, ErrCannotDecodeIdent
	}
	exp, err := decodeText(parts[1])
	if err != nil {
		return Token{}, ErrCannotDecodeExp
	}

	return Token{Ident: ident, Exp: exp, Sign: parts[2]}, nil
}

// String renders the wire form.
func (t Token) String() string {
	return signingInput(t.Ident, t.Exp) + "." + t.Sign
}

func signingInput(ident, exp string) string {
	return encodeText(ident) + "." + encodeText(exp)
}

func encodeText(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func decodeText(seg string) (string, error) {
	b, err := segmentParser.DecodeSegment(seg)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidFormat
	}
	return string(b), nil
}
