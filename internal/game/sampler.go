package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// Sampler draws matches uniformly at random. Draws are independent, so a
// match may come up again in the same session.
type Sampler struct {
	records []MatchRecord
	mu      sync.Mutex
	rng     *rand.Rand
}

// NewSampler seeds a sampler from the clock.
func NewSampler(records []MatchRecord) (*Sampler, error) {
	return NewSeededSampler(records, time.Now().UnixNano())
}

func NewSeededSampler(records []MatchRecord, seed int64) (*Sampler, error) {
	if len(records) == 0 {
		return nil, errors.New("sampler needs at least one match")
	}
	return &Sampler{
		records: records,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// Sample returns one match.
func (s *Sampler) Sample() MatchRecord {
	s.mu.Lock()
	i := s.rng.Intn(len(s.records))
	s.mu.Unlock()
	return s.records[i]
}

func (s *Sampler) Len() int {
	return len(s.records)
}
