package store

import (
	"fmt"
	"sync"

	"github.com/lattice-web/lattice/contracts"
)

// MemoryStateStore is safe for concurrent use; the gateway reads from it
// while local clients publish.
type MemoryStateStore struct {
	mutex  sync.RWMutex
	states map[string][]byte
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string][]byte)}
}

func (this *MemoryStateStore) Put(id string, state []byte) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.states[id] = append([]byte(nil), state...)
	return nil
}

func (this *MemoryStateStore) Get(id string) ([]byte, error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()
	state, found := this.states[id]
	if !found {
		return nil, fmt.Errorf("%w: %s", contracts.ErrStateNotFound, id)
	}
	return append([]byte(nil), state...), nil
}
