// Package store provides the LotStore implementations: an in-memory one and
// a JSONL file one.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/etnz/lotbook"
	"github.com/google/uuid"
)

// Memory is an in-memory lotbook.LotStore. Lots keep their insertion order.
// Its zero value is an empty store.
type Memory struct {
	mu   sync.RWMutex
	lots []lotbook.Lot
	// onChange is called with the full list of lots after each mutation,
	// while the lock is held. Used by File to persist.
	onChange func([]lotbook.Lot) error
}

var _ lotbook.LotStore = (*Memory)(nil)

// NewMemory returns a store initialized with a copy of lots.
func NewMemory(lots ...lotbook.Lot) *Memory {
	return &Memory{lots: slices.Clone(lots)}
}

func (m *Memory) index(id string) int {
	return slices.IndexFunc(m.lots, func(l lotbook.Lot) bool { return l.ID == id })
}

// Lots implements lotbook.LotStore.
func (m *Memory) Lots(_ context.Context, f lotbook.Filter) ([]lotbook.Lot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]lotbook.Lot, 0, len(m.lots))
	for _, l := range m.lots {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Symbols implements lotbook.LotStore.
func (m *Memory) Symbols(_ context.Context, portfolio string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f := lotbook.Filter{Portfolio: portfolio}
	var symbols []string
	for _, l := range m.lots {
		if f.Match(l) && !slices.Contains(symbols, l.Symbol) {
			symbols = append(symbols, l.Symbol)
		}
	}
	slices.Sort(symbols)
	return symbols, nil
}

// Add implements lotbook.LotStore.
func (m *Memory) Add(_ context.Context, l lotbook.Lot) (lotbook.Lot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if m.index(l.ID) >= 0 {
		return lotbook.Lot{}, fmt.Errorf("cannot add lot %q: %w", l.ID, lotbook.ErrDuplicate)
	}
	if err := m.commit(append(slices.Clip(m.lots), l)); err != nil {
		return lotbook.Lot{}, err
	}
	return l, nil
}

// Update implements lotbook.LotStore.
func (m *Memory) Update(_ context.Context, l lotbook.Lot) (lotbook.Lot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(l.ID)
	if i < 0 {
		return lotbook.Lot{}, fmt.Errorf("cannot update lot %q: %w", l.ID, lotbook.ErrNotFound)
	}
	lots := slices.Clone(m.lots)
	lots[i] = l
	if err := m.commit(lots); err != nil {
		return lotbook.Lot{}, err
	}
	return l, nil
}

// Remove implements lotbook.LotStore.
func (m *Memory) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("cannot remove lot %q: %w", id, lotbook.ErrNotFound)
	}
	return m.commit(slices.Delete(slices.Clone(m.lots), i, i+1))
}

// Sort reorders the lots by time, then ID, the order they are processed in.
func (m *Memory) Sort(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commit(lotbook.SortLots(m.lots))
}

// commit replaces the lots, unless persisting them fails.
func (m *Memory) commit(lots []lotbook.Lot) error {
	if m.onChange != nil {
		if err := m.onChange(lots); err != nil {
			return err
		}
	}
	m.lots = lots
	return nil
}
