package idgen

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"
	"sync/atomic"
)

// HashGenerator derives short codes from a SHA256 digest of the long URL.
// Every call hashes "salt|longURL:seq:attempt", where salt is drawn once per
// generator and seq counts calls, so a URL submitted many times gets a fresh
// candidate each time instead of replaying the codes it already owns.
// The first 8 bytes of the digest are read as a uint64 and encoded with
// base62, keeping the last `length` chars (the leading digit of a 64-bit
// value is skewed).
type HashGenerator struct {
	length int
	salt   [8]byte
	seq    atomic.Uint64
}

// NewHashGenerator returns a HashGenerator producing codes of the given length.
func NewHashGenerator(length int) (*HashGenerator, error) {
	if err := checkLength(length); err != nil {
		return nil, err
	}
	g := &HashGenerator{length: length}
	if _, err := rand.Read(g.salt[:]); err != nil {
		return nil, fmt.Errorf("seed hash generator: %w", err)
	}
	return g, nil
}

func (g *HashGenerator) Generate(_ context.Context, longURL string, attempt int) (string, error) {
	seq := g.seq.Add(1)

	h := sha256.New()
	h.Write(g.salt[:])
	h.Write([]byte(longURL + ":" + strconv.FormatUint(seq, 10) + ":" + strconv.Itoa(attempt)))
	sum := h.Sum(nil)

	// 62^11 exceeds 2^64, so lengths above 10 need a second word.
	code := EncodePadded(binary.BigEndian.Uint64(sum[:8]), 11)
	if g.length > 10 {
		code = EncodePadded(binary.BigEndian.Uint64(sum[8:16]), 11) + code
	}
	return code[len(code)-g.length:], nil
}
