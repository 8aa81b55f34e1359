package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Siddarth2230/shortlink/internal/models"
	"github.com/Siddarth2230/shortlink/pkg/metrics"
)

var (
	ErrNotFound      = errors.New("short code not found")
	ErrDuplicateCode = errors.New("short code already exists")
)

// LinkStore persists links keyed by short code.
//
// Put must be atomic: of several concurrent Puts for the same code exactly
// one succeeds and the rest get ErrDuplicateCode.
type LinkStore interface {
	Put(ctx context.Context, link *models.Link) error
	Get(ctx context.Context, code string) (*models.Link, error)
	Exists(ctx context.Context, code string) (bool, error)
	Close() error
}

func observe(backend, op string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}
