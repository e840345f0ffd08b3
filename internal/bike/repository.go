package bike

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrStoreUnavailable is returned when the bikes table cannot be read.
var ErrStoreUnavailable = errors.New("store unavailable")

type Repository interface {
	List(ctx context.Context) ([]Bike, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// running the handlers without a database.
type InMemoryRepository struct {
	storage []Bike

	mu  sync.RWMutex
	err error
}

// NewInMemoryRepository copies seed; bikes without an ID get their 1-based position.
func NewInMemoryRepository(seed []Bike) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Bike, 0, len(seed))}
	for i, b := range seed {
		if b.ID == 0 {
			b.ID = i + 1
		}
		r.storage = append(r.storage, b)
	}
	return r
}

// SetErr makes List fail with err wrapped in ErrStoreUnavailable. A nil err
// restores normal reads.
func (r *InMemoryRepository) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Bike, error) {
	r.mu.RLock()
	err := r.err
	r.mu.RUnlock()

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	out := make([]Bike, len(r.storage))
	copy(out, r.storage)
	return out, nil
}
