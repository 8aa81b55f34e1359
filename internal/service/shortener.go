package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Siddarth2230/shortlink/internal/models"
	"github.com/Siddarth2230/shortlink/internal/repository"
	"github.com/Siddarth2230/shortlink/pkg/idgen"
	"github.com/Siddarth2230/shortlink/pkg/metrics"
)

// DefaultMaxAttempts bounds code generation per submission.
const DefaultMaxAttempts = 8

// Shortener validates submissions, issues codes and persists links.
type Shortener struct {
	store       repository.LinkStore
	generator   idgen.Generator
	maxAttempts int
	now         func() time.Time
}

// NewShortener constructor. maxAttempts <= 0 selects DefaultMaxAttempts.
func NewShortener(store repository.LinkStore, gen idgen.Generator, maxAttempts int) *Shortener {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Shortener{
		store:       store,
		generator:   gen,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Create stores rawURL under a freshly generated code.
//
// Each attempt draws a candidate, skips it if the store already has it and
// otherwise tries to Put it. A Put that loses a race to a concurrent
// submission (ErrDuplicateCode) counts as a used attempt, never as a failure.
func (s *Shortener) Create(ctx context.Context, rawURL string) (*models.Link, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code, err := s.generator.Generate(ctx, target, attempt)
		if err != nil {
			// generator failure is fatal
			return nil, fmt.Errorf("generate code: %w", err)
		}
		if code == "" {
			log.Printf("idgen: empty code on attempt %d", attempt+1)
			continue
		}

		taken, err := s.store.Exists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check code %s: %w", code, err)
		}
		if taken {
			metrics.CodeCollisions.WithLabelValues("exists").Inc()
			log.Printf("idgen collision detected (attempt=%d code=%s)", attempt+1, code)
			continue
		}

		link := &models.Link{
			Code:      code,
			TargetURL: target,
			CreatedAt: s.now().UTC(),
		}
		err = s.store.Put(ctx, link)
		if errors.Is(err, repository.ErrDuplicateCode) {
			metrics.CodeCollisions.WithLabelValues("put").Inc()
			log.Printf("Save race detected for code=%s, retrying (attempt %d/%d)", code, attempt+1, s.maxAttempts)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save link %s: %w", code, err)
		}

		metrics.LinksCreated.WithLabelValues("generated").Inc()
		return link, nil
	}

	metrics.GenerationExhausted.Inc()
	return nil, ErrGenerationExhausted
}

// CreateCustom stores rawURL under a caller-chosen code.
func (s *Shortener) CreateCustom(ctx context.Context, rawURL, code string) (*models.Link, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	if err := ValidateCustomCode(code); err != nil {
		return nil, err
	}

	link := &models.Link{
		Code:      code,
		TargetURL: target,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Put(ctx, link); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, ErrCodeTaken
		}
		return nil, fmt.Errorf("save link %s: %w", code, err)
	}

	metrics.LinksCreated.WithLabelValues("custom").Inc()
	return link, nil
}
