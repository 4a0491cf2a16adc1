package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/andresuchdata/salesmap/internal/domain"
)

// MemoryStore keeps run history and price groups in process memory. It is
// used when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string]*domain.ReportRun
	prices domain.PriceGroups
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*domain.ReportRun)}
}

func (m *MemoryStore) CreateRun(ctx context.Context, run *domain.ReportRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *MemoryStore) UpdateRun(ctx context.Context, run *domain.ReportRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[run.ID]; !ok {
		return ErrRunNotFound
	}
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *MemoryStore) GetRun(ctx context.Context, id string) (*domain.ReportRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

// ListRuns returns the most recent runs first.
func (m *MemoryStore) ListRuns(ctx context.Context, limit int) ([]*domain.ReportRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.ReportRun, 0, len(m.runs))
	for _, run := range m.runs {
		cp := *run
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) GetPriceGroups(ctx context.Context) (domain.PriceGroups, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(domain.PriceGroups(nil), m.prices...), nil
}

func (m *MemoryStore) ReplacePriceGroups(ctx context.Context, groups domain.PriceGroups) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices = append(domain.PriceGroups(nil), groups...)
	return nil
}

var (
	_ ReportRunRepository  = (*MemoryStore)(nil)
	_ PriceGroupRepository = (*MemoryStore)(nil)
)
