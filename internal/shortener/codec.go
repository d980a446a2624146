package shortener

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
	hashids "github.com/speps/go-hashids/v2"
)

// codecAlphabet restricts generated codes to ASCII letters and digits.
const codecAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultMinCodeLength is the minimum length of generated short codes.
const DefaultMinCodeLength = 5

// Building a hashids instance shuffles the alphabet, which is the expensive
// step. The salt is static for the process lifetime, so instances are kept
// per (salt, minLength) instead of being rebuilt per call.
var codecInstances = xsync.NewMapOf[string, *hashids.HashID]()

// Codec is a deterministic bijection between positive integer ids and short
// alphanumeric codes, parameterized by a secret salt and a minimum length.
type Codec struct {
	salt      string
	minLength int
	h         *hashids.HashID
}

// NewCodec creates a codec for the given salt and minimum code length.
// A minLength below 1 falls back to DefaultMinCodeLength.
func NewCodec(salt string, minLength int) (*Codec, error) {
	if minLength < 1 {
		minLength = DefaultMinCodeLength
	}

	key := fmt.Sprintf("%s:%d", salt, minLength)

	h, ok := codecInstances.Load(key)
	if !ok {
		data := hashids.NewData()
		data.Salt = salt
		data.MinLength = minLength
		data.Alphabet = codecAlphabet

		var err error

		h, err = hashids.NewWithData(data)
		if err != nil {
			return nil, fmt.Errorf("build hashids instance: %w", err)
		}

		codecInstances.Store(key, h)
	}

	return &Codec{salt: salt, minLength: minLength, h: h}, nil
}

// Encode turns a positive id into a short code. Ids below 1 are out of
// contract: the allocator starts at 1, and 0 is rejected rather than encoded
// to a code that would never correspond to a stored record.
func (c *Codec) Encode(id int64) (string, error) {
	if id < 1 {
		return "", fmt.Errorf("id %d is out of range: ids start at 1", id)
	}

	code, err := c.h.EncodeInt64([]int64{id})
	if err != nil {
		return "", fmt.Errorf("encode id %d: %w", id, err)
	}

	return code, nil
}

// Decode extracts the id from a short code. Malformed input, including
// characters outside the alphabet and codes produced with a different salt,
// yields ok == false rather than an error: guessed codes are routine input.
func (c *Codec) Decode(code string) (int64, bool) {
	if code == "" {
		return 0, false
	}

	ids, err := c.h.DecodeInt64WithError(code)
	if err != nil || len(ids) == 0 || ids[0] < 1 {
		return 0, false
	}

	return ids[0], true
}
