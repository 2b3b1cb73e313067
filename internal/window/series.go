// Package window reduces raw stream samples into fixed-width window scalars.
package window

import "sync"

// Series is an append-only ordered sequence of per-window scalars. Index 0 is the
// oldest window and appended values are never mutated. With a positive retention the
// series keeps only the most recent entries; retention 0 grows without bound.
type Series struct {
	mu        sync.RWMutex
	values    []float64
	retention int
}

// NewSeries builds an empty series. retention <= 0 means unbounded growth.
func NewSeries(retention int) *Series {
	if retention < 0 {
		retention = 0
	}
	return &Series{retention: retention}
}

// Append adds one completed-window scalar, evicting the oldest entry when the
// retention cap is reached.
func (s *Series) Append(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, v)
	if s.retention > 0 && len(s.values) > s.retention {
		s.values = s.values[len(s.values)-s.retention:]
	}
}

// Len reports how many window values the series currently holds.
func (s *Series) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Values returns a copy of the series, oldest first.
func (s *Series) Values() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Last returns the most recent window value, reporting false on an empty series.
func (s *Series) Last() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.values) == 0 {
		return 0, false
	}
	return s.values[len(s.values)-1], true
}
