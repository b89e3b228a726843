// Package gameid generates hand identifiers: UUIDv7 values rendered as
// 26-character Crockford base32 strings that sort by creation time.
package gameid

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32, lower case
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the encoded length of an id.
const Length = 26

// Generator produces ids from an optional entropy source
type Generator struct {
	entropy io.Reader
}

// NewGenerator creates a generator drawing random bits from entropy. A nil
// reader uses crypto/rand.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// FromRand wraps a seeded generator so id sequences can be reproduced.
func FromRand(rng *rand.Rand) *Generator {
	return NewGenerator(randReader{rng})
}

// Generate creates an id using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new id
func (g *Generator) Generate() string {
	var (
		u   uuid.UUID
		err error
	)
	if g == nil || g.entropy == nil {
		u, err = uuid.NewV7()
	} else {
		u, err = uuid.NewV7FromReader(g.entropy)
	}
	if err != nil {
		panic("gameid: " + err.Error())
	}
	return Encode(u)
}

// Encode renders u as 26 base32 characters. The 128 bits are preceded by
// two zero bits, so the first character is always 0-7.
func Encode(u uuid.UUID) string {
	var out [Length]byte
	for i := range out {
		var v byte
		for b := range 5 {
			v <<= 1
			bit := i*5 + b - 2
			if bit >= 0 && u[bit/8]&(0x80>>(bit%8)) != 0 {
				v |= 1
			}
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

// Decode parses an id produced by Encode.
func Decode(id string) (uuid.UUID, error) {
	var u uuid.UUID
	if err := Validate(id); err != nil {
		return u, err
	}
	id = strings.ToLower(id)
	for i := range Length {
		v := strings.IndexByte(alphabet, id[i])
		for b := range 5 {
			bit := i*5 + b - 2
			if bit < 0 || v&(0x10>>b) == 0 {
				continue
			}
			u[bit/8] |= 0x80 >> (bit % 8)
		}
	}
	return u, nil
}

// Validate checks that id is 26 base32 characters starting with 0-7
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("id must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("id first character must be 0-7, got %c", id[0])
	}
	for i, c := range strings.ToLower(id) {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}

type randReader struct {
	rng *rand.Rand
}

func (r randReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}
