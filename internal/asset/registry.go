package asset

import (
	"fmt"
	"sync"
)

type symbolKey struct {
	chainID uint64
	symbol  string
}

// Registry indexes assets by ID and by symbol per chain.
type Registry struct {
	mu       sync.RWMutex
	byID     map[ID]*Asset
	bySymbol map[symbolKey]*Asset
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[ID]*Asset),
		bySymbol: make(map[symbolKey]*Asset),
	}
}

// Register adds a. A symbol may exist once per chain.
func (r *Registry) Register(a *Asset) error {
	if a == nil {
		return ErrNilAsset
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.id]; ok {
		return fmt.Errorf("asset: %s already registered", a.id)
	}
	key := symbolKey{chainID: a.ChainID(), symbol: a.symbol}
	if _, ok := r.bySymbol[key]; ok {
		return fmt.Errorf("asset: %s already registered on chain %d", a.symbol, a.ChainID())
	}

	r.byID[a.id] = a
	r.bySymbol[key] = a
	return nil
}

// Get looks up an asset by ID.
func (r *Registry) Get(id ID) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	return a, ok
}

// Lookup finds an asset by symbol on a chain.
func (r *Registry) Lookup(chainID uint64, symbol string) (*Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.bySymbol[symbolKey{chainID: chainID, symbol: symbol}]
	if !ok {
		return nil, fmt.Errorf("asset: %s not registered on chain %d", symbol, chainID)
	}
	return a, nil
}

// Count returns the number of registered assets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
