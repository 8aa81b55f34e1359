package idgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sync"
)

// maxUnbiased is the largest multiple of 62 that fits in a byte. Bytes at or
// above it are discarded so every character is equally likely.
const maxUnbiased = 248

// RandomGenerator produces fixed-length base62 codes from a byte source.
type RandomGenerator struct {
	mu     sync.Mutex
	length int
	src    io.Reader
}

// NewRandomGenerator returns a generator reading randomness from src.
// A nil src means crypto/rand.Reader.
func NewRandomGenerator(length int, src io.Reader) (*RandomGenerator, error) {
	if err := checkLength(length); err != nil {
		return nil, err
	}
	if src == nil {
		src = rand.Reader
	}
	return &RandomGenerator{length: length, src: src}, nil
}

// Generate ignores longURL and attempt; every call draws a fresh code.
func (g *RandomGenerator) Generate(_ context.Context, _ string, _ int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := make([]byte, 0, g.length)
	buf := make([]byte, g.length)
	for len(code) < g.length {
		if _, err := io.ReadFull(g.src, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= maxUnbiased {
				continue
			}
			code = append(code, alphabet[b%62])
			if len(code) == g.length {
				break
			}
		}
	}
	return string(code), nil
}
