package service

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Siddarth2230/shortlink/internal/models"
)

// scriptedGenerator replays codes in order and repeats the last one.
type scriptedGenerator struct {
	mu    sync.Mutex
	codes []string
	calls int
	err   error
}

func (g *scriptedGenerator) Generate(_ context.Context, _ string, _ int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	i := g.calls
	if i >= len(g.codes) {
		i = len(g.codes) - 1
	}
	g.calls++
	return g.codes[i], nil
}

func (g *scriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, link *models.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *mockStore) Get(ctx context.Context, code string) (*models.Link, error) {
	args := m.Called(ctx, code)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (m *mockStore) Exists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Close() error {
	return nil
}

var errBoom = errors.New("boom")
