package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Siddarth2230/shortlink/internal/models"
)

const backendMemory = "memory"

// MemoryStore keeps links in a map. When opened with a journal path every
// accepted link is appended to the file as one JSON line and the file is
// replayed on the next open.
type MemoryStore struct {
	mu      sync.RWMutex
	links   map[string]models.Link
	journal *os.File
	enc     *json.Encoder
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[string]models.Link)}
}

// OpenMemoryStore loads the journal at path (creating it if missing) and
// keeps it open for appends. An empty path gives a purely in-memory store.
func OpenMemoryStore(path string) (*MemoryStore, error) {
	s := NewMemoryStore()
	if path == "" {
		return s, nil
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := s.replay(f); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, fmt.Errorf("seek journal: %w", err)
	}
	s.journal = f
	s.enc = json.NewEncoder(f)
	log.Printf("memory store: loaded %d links from %s", len(s.links), path)
	return s, nil
}

// replay reads every complete record. A torn trailing record from a crash
// is cut off so later appends start on a clean line.
func (s *MemoryStore) replay(f *os.File) error {
	dec := json.NewDecoder(f)
	for {
		var l models.Link
		err := dec.Decode(&l)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			offset := dec.InputOffset()
			log.Printf("memory store: journal corrupt after byte %d, truncating: %v", offset, err)
			if terr := f.Truncate(offset); terr != nil {
				return fmt.Errorf("truncate journal: %w", terr)
			}
			return nil
		}
		s.links[l.Code] = l
	}
}

// Put stores link unless its code is taken. With a journal the record is
// written before the link becomes visible; a failed write leaves neither.
func (s *MemoryStore) Put(_ context.Context, link *models.Link) error {
	defer observe(backendMemory, "put", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.links[link.Code]; taken {
		return ErrDuplicateCode
	}
	if s.enc != nil {
		if err := s.appendJournal(link); err != nil {
			return err
		}
	}
	s.links[link.Code] = *link
	return nil
}

// appendJournal writes one record. A partial write is cut back off so the
// next record does not share a line with the torn one. Caller holds s.mu.
func (s *MemoryStore) appendJournal(link *models.Link) error {
	offset, err := s.journal.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	if err := s.enc.Encode(link); err != nil {
		if terr := s.journal.Truncate(offset); terr != nil {
			return fmt.Errorf("append journal: %w (rollback: %v)", err, terr)
		}
		if _, serr := s.journal.Seek(offset, io.SeekStart); serr != nil {
			return fmt.Errorf("append journal: %w (rollback: %v)", err, serr)
		}
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}

// Get returns a copy of the link stored under code, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, code string) (*models.Link, error) {
	defer observe(backendMemory, "get", time.Now())

	s.mu.RLock()
	l, ok := s.links[code]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

// Exists reports whether code is taken.
func (s *MemoryStore) Exists(_ context.Context, code string) (bool, error) {
	defer observe(backendMemory, "exists", time.Now())

	s.mu.RLock()
	_, ok := s.links[code]
	s.mu.RUnlock()
	return ok, nil
}

// Len returns the number of stored links.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links)
}

// Close closes the journal, if any. The map stays readable.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.journal == nil {
		return nil
	}
	err := s.journal.Close()
	s.journal, s.enc = nil, nil
	return err
}
