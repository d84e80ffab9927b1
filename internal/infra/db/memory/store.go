package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/domain/failures"
)

// Store keeps records in process memory. Records are stored as JSON so callers
// can never mutate what has been saved.
type Store struct {
	mu       sync.RWMutex
	records  map[analysis.ID][]byte
	order    []analysis.ID
	failures []failures.Failure
}

func NewStore() *Store {
	return &Store{records: make(map[analysis.ID][]byte)}
}

func (s *Store) Create(_ context.Context, rec *analysis.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %w", analysis.ErrPersistence, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("%w: duplicate id %s", analysis.ErrPersistence, rec.ID)
	}
	s.records[rec.ID] = b
	s.order = append(s.order, rec.ID)
	return nil
}

func (s *Store) GetOwned(_ context.Context, id analysis.ID, owner string) (*analysis.Record, error) {
	s.mu.RLock()
	b, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, analysis.ErrNotFound
	}
	rec, err := decode(b)
	if err != nil {
		return nil, err
	}
	if rec.UserID != owner {
		return nil, analysis.ErrNotFound
	}
	return rec, nil
}

func (s *Store) ListOwned(_ context.Context, owner string, page, pageSize int) (analysis.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	s.mu.RLock()
	var owned []*analysis.Record
	for _, id := range s.order {
		rec, err := decode(s.records[id])
		if err != nil {
			s.mu.RUnlock()
			return analysis.PaginatedResult{}, err
		}
		if rec.UserID == owner {
			owned = append(owned, rec)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	total := int64(len(owned))
	start := (page - 1) * pageSize
	if start > len(owned) {
		start = len(owned)
	}
	end := start + pageSize
	if end > len(owned) {
		end = len(owned)
	}
	return analysis.NewPage(owned[start:end], page, pageSize, total), nil
}

func decode(b []byte) (*analysis.Record, error) {
	var rec analysis.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", analysis.ErrPersistence, err)
	}
	return &rec, nil
}

// Failures returns a failures.Repository sharing this store.
func (s *Store) Failures() failures.Repository { return failureStore{s} }

type failureStore struct{ s *Store }

func (f failureStore) Save(_ context.Context, fl *failures.Failure) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	fl.ID = int64(len(f.s.failures) + 1)
	f.s.failures = append(f.s.failures, *fl)
	return nil
}
