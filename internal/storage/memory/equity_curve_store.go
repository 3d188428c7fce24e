package memory

import (
	"context"
	"sync"
	"time"

	"solana-trade-desk/internal/domain"
	"solana-trade-desk/internal/storage"
)

// EquityCurveStore is an in-memory implementation of storage.EquityCurveStore.
// Points are kept in append order.
type EquityCurveStore struct {
	mu     sync.RWMutex
	points []domain.EquityCurvePoint
}

// NewEquityCurveStore creates a new in-memory equity curve store.
func NewEquityCurveStore() *EquityCurveStore {
	return &EquityCurveStore{}
}

// Append adds a new point.
func (s *EquityCurveStore) Append(_ context.Context, p *domain.EquityCurvePoint) error {
	if p == nil || p.Timestamp.IsZero() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.points = append(s.points, *p)
	return nil
}

// GetByTimeRange retrieves points within [start, end] (inclusive).
func (s *EquityCurveStore) GetByTimeRange(_ context.Context, start, end time.Time) ([]*domain.EquityCurvePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EquityCurvePoint
	for i := range s.points {
		p := s.points[i]
		if !start.IsZero() && p.Timestamp.Before(start) {
			continue
		}
		if p.Timestamp.After(end) {
			continue
		}
		result = append(result, &p)
	}
	return result, nil
}

// GetAll retrieves every point.
func (s *EquityCurveStore) GetAll(_ context.Context) ([]*domain.EquityCurvePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.EquityCurvePoint, 0, len(s.points))
	for i := range s.points {
		p := s.points[i]
		result = append(result, &p)
	}
	return result, nil
}

var _ storage.EquityCurveStore = (*EquityCurveStore)(nil)
