package service

import (
	"errors"

	"github.com/Siddarth2230/shortlink/internal/repository"
)

var (
	ErrInvalidURL          = errors.New("invalid URL")
	ErrInvalidCode         = errors.New("invalid custom code")
	ErrCodeTaken           = errors.New("custom short code already taken")
	ErrGenerationExhausted = errors.New("failed to generate unique short code after retries")

	// ErrNotFound is the repository sentinel so callers can match either.
	ErrNotFound = repository.ErrNotFound
)
