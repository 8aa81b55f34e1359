package idgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	// DefaultLength is the code length used when none is configured.
	DefaultLength = 7

	MinLength = 4
	MaxLength = 16
)

var (
	ErrInvalidLength   = fmt.Errorf("code length must be between %d and %d", MinLength, MaxLength)
	ErrUnknownStrategy = errors.New("unknown generator strategy")
)

// Generator defines the interface for generating short codes.
//
// attempt is the zero-based retry index for the current submission.
// Deterministic strategies use it to derive a different candidate after a
// collision; the others ignore it.
type Generator interface {
	Generate(ctx context.Context, longURL string, attempt int) (string, error)
}

// Options configures New.
type Options struct {
	Strategy string // random, hash, counter or snowflake
	Length   int
	NodeID   uint64        // snowflake only
	Redis    *redis.Client // counter only
}

// New builds the generator named by opts.Strategy. An empty strategy
// selects random codes.
func New(opts Options) (Generator, error) {
	if opts.Length == 0 {
		opts.Length = DefaultLength
	}

	var (
		gen Generator
		err error
	)
	switch opts.Strategy {
	case "", "random":
		gen, err = NewRandomGenerator(opts.Length, nil)
	case "hash":
		gen, err = NewHashGenerator(opts.Length)
	case "counter":
		if opts.Redis == nil {
			return nil, errors.New("counter generator requires a redis client")
		}
		gen, err = NewCounterGenerator(opts.Redis, DefaultCounterKey, opts.Length)
	case "snowflake":
		gen, err = NewSnowflakeGenerator(opts.NodeID, DefaultEpoch)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, opts.Strategy)
	}
	if err != nil {
		return nil, err
	}
	return gen, nil
}

func checkLength(n int) error {
	if n < MinLength || n > MaxLength {
		return ErrInvalidLength
	}
	return nil
}
