package repository

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Siddarth2230/shortlink/pkg/metrics"
)

// tornWriter writes the first half of each record and then fails, like a
// disk filling up mid-write.
type tornWriter struct{ f *os.File }

func (w tornWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p[:len(p)/2])
	if err != nil {
		return n, err
	}
	return n, io.ErrShortWrite
}

func TestMemoryStore_JournalReplay(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "links.jsonl")

	s, err := OpenMemoryStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, newLink("aaaa01", "https://a.example")))
	require.NoError(t, s.Put(ctx, newLink("bbbb02", "https://b.example")))
	assert.ErrorIs(t, s.Put(ctx, newLink("aaaa01", "https://c.example")), ErrDuplicateCode)
	require.NoError(t, s.Close())

	s, err = OpenMemoryStore(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 2, s.Len())
	got, err := s.Get(ctx, "aaaa01")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", got.TargetURL)
}

func TestMemoryStore_TornJournalTail(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "links.jsonl")

	s, err := OpenMemoryStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, newLink("good01", "https://good.example")))
	require.NoError(t, s.Close())

	// simulate a crash halfway through the next record
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"code":"half01","target_u`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	s, err = OpenMemoryStore(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	require.NoError(t, s.Put(ctx, newLink("next01", "https://next.example")))
	require.NoError(t, s.Close())

	s, err = OpenMemoryStore(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 2, s.Len())
	_, err = s.Get(ctx, "next01")
	assert.NoError(t, err)
}

func TestMemoryStore_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, newLink("copy01", "https://example.com")))

	got, err := s.Get(ctx, "copy01")
	require.NoError(t, err)
	got.TargetURL = "https://evil.example"

	again, err := s.Get(ctx, "copy01")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", again.TargetURL)
}

func TestMemoryStore_FailedAppendLeavesNoTornRecord(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "links.jsonl")

	s, err := OpenMemoryStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, newLink("first1", "https://first.example")))

	s.enc = json.NewEncoder(tornWriter{f: s.journal})
	err = s.Put(ctx, newLink("torn01", "https://torn.example"))
	require.Error(t, err)
	ok, err := s.Exists(ctx, "torn01")
	require.NoError(t, err)
	assert.False(t, ok, "a link whose record failed to persist must not be visible")

	s.enc = json.NewEncoder(s.journal)
	require.NoError(t, s.Put(ctx, newLink("after1", "https://after.example")))
	require.NoError(t, s.Put(ctx, newLink("after2", "https://after2.example")))
	require.NoError(t, s.Close())

	s, err = OpenMemoryStore(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 3, s.Len())
	for _, code := range []string{"first1", "after1", "after2"} {
		_, err := s.Get(ctx, code)
		assert.NoError(t, err, code)
	}
	_, err = s.Get(ctx, "torn01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func sampleCount(t *testing.T, backend, op string) uint64 {
	t.Helper()
	var m dto.Metric
	h := metrics.StoreOperationDuration.WithLabelValues(backend, op).(prometheus.Histogram)
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestMemoryStore_ObservesEveryOperation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	before := map[string]uint64{}
	for _, op := range []string{"put", "get", "exists"} {
		before[op] = sampleCount(t, backendMemory, op)
	}

	require.NoError(t, s.Put(ctx, newLink("obs001", "https://example.com")))
	_, err := s.Get(ctx, "obs001")
	require.NoError(t, err)
	_, err = s.Exists(ctx, "obs001")
	require.NoError(t, err)

	for op, n := range before {
		assert.Equal(t, n+1, sampleCount(t, backendMemory, op), op)
	}
}
