package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Siddarth2230/shortlink/internal/models"
	"github.com/Siddarth2230/shortlink/internal/repository"
	"github.com/Siddarth2230/shortlink/pkg/cache"
	"github.com/Siddarth2230/shortlink/pkg/metrics"
)

// Resolver maps short codes back to target URLs. Links never change once
// stored, so cached entries need no invalidation.
type Resolver struct {
	store repository.LinkStore
	l1    *cache.LRU[string] // may be nil
	l2    *cache.RedisCache  // may be nil
}

func NewResolver(store repository.LinkStore, l1 *cache.LRU[string], l2 *cache.RedisCache) *Resolver {
	return &Resolver{store: store, l1: l1, l2: l2}
}

// Resolve returns the target URL for code, or ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, code string) (string, error) {
	if code == "" {
		metrics.Resolutions.WithLabelValues("not_found").Inc()
		return "", ErrNotFound
	}

	// ===== CACHE LAYER (L1) =====
	if r.l1 != nil {
		if target, ok := r.l1.Get(code); ok {
			metrics.CacheHits.WithLabelValues("l1").Inc()
			metrics.Resolutions.WithLabelValues("found").Inc()
			return target, nil
		}
		metrics.CacheMisses.WithLabelValues("l1").Inc()
	}

	// ===== CACHE LAYER (L2) =====
	if r.l2 != nil {
		var link models.Link
		err := r.l2.Get(ctx, code, &link)
		switch {
		case err == nil:
			metrics.CacheHits.WithLabelValues("l2").Inc()
			r.fillL1(code, link.TargetURL)
			metrics.Resolutions.WithLabelValues("found").Inc()
			return link.TargetURL, nil
		case errors.Is(err, cache.ErrCacheMiss):
			metrics.CacheMisses.WithLabelValues("l2").Inc()
		default:
			// Redis trouble must not take redirects down with it.
			log.Printf("redis cache get %s: %v", code, err)
		}
	}

	link, err := r.store.Get(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.Resolutions.WithLabelValues("not_found").Inc()
			return "", ErrNotFound
		}
		metrics.Resolutions.WithLabelValues("error").Inc()
		return "", fmt.Errorf("load link %s: %w", code, err)
	}

	if r.l2 != nil {
		if err := r.l2.Set(ctx, code, link); err != nil {
			log.Printf("redis cache set %s: %v", code, err)
		}
	}
	r.fillL1(code, link.TargetURL)

	metrics.Resolutions.WithLabelValues("found").Inc()
	return link.TargetURL, nil
}

func (r *Resolver) fillL1(code, target string) {
	if r.l1 == nil {
		return
	}
	r.l1.Put(code, target)
	metrics.CacheSize.WithLabelValues("l1").Set(float64(r.l1.Len()))
}
