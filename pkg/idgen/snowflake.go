package idgen

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	nodeBits     = 10
	sequenceBits = 12

	maxNodeID   = (1 << nodeBits) - 1
	maxSequence = (1 << sequenceBits) - 1
)

// DefaultEpoch is 2020-01-01T00:00:00Z.
var DefaultEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

var ErrNodeIDRange = errors.New("snowflake node id out of range")

// SnowflakeGenerator implements a Snowflake-like ID generator.
// Layout (64 bits):
// 41 bits timestamp (ms since epoch)
// 10 bits node ID (0..1023)
// 12 bits sequence (0..4095)
//
// Codes are unique per node without any store round trip, but they are
// longer than random codes (roughly 9-11 base62 chars).
type SnowflakeGenerator struct {
	mu       sync.Mutex
	epoch    int64 // ms
	nodeID   uint64
	lastTs   int64
	sequence uint64
	now      func() time.Time
}

// NewSnowflakeGenerator creates a generator for nodeID. A zero epoch selects
// DefaultEpoch.
func NewSnowflakeGenerator(nodeID uint64, epoch time.Time) (*SnowflakeGenerator, error) {
	if nodeID > maxNodeID {
		return nil, ErrNodeIDRange
	}
	if epoch.IsZero() {
		epoch = DefaultEpoch
	}
	return &SnowflakeGenerator{
		epoch:  epoch.UnixMilli(),
		nodeID: nodeID,
		lastTs: -1,
		now:    time.Now,
	}, nil
}

func (s *SnowflakeGenerator) Generate(ctx context.Context, _ string, _ int) (string, error) {
	id, err := s.next(ctx)
	if err != nil {
		return "", err
	}
	return Encode(id), nil
}

func (s *SnowflakeGenerator) next(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UnixMilli() - s.epoch
	if ts < 0 {
		return 0, errors.New("current time is before epoch")
	}
	if ts < s.lastTs {
		// clock moved backwards; keep issuing from the last timestamp
		ts = s.lastTs
	}

	if ts == s.lastTs {
		s.sequence = (s.sequence + 1) & maxSequence
		if s.sequence == 0 {
			// sequence overflow within same millisecond -> wait for next millisecond
			for ts <= s.lastTs {
				if err := ctx.Err(); err != nil {
					return 0, err
				}
				time.Sleep(time.Millisecond)
				ts = s.now().UnixMilli() - s.epoch
			}
		}
	} else {
		s.sequence = 0
	}
	s.lastTs = ts

	return (uint64(ts) << (nodeBits + sequenceBits)) |
		(s.nodeID << sequenceBits) |
		s.sequence, nil
}
