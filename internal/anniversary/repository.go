// Package anniversary owns the anniversary collection: it loads and saves it
// through a store, runs resolution passes and applies user edits.
package anniversary

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
	"github.com/tartampluch/go-anniversary/internal/store"
)

// Repository mirrors the collection as one JSON array under a single key.
type Repository struct {
	store store.Store
	key   string
}

// NewRepository uses config.StoreKey when key is empty.
func NewRepository(s store.Store, key string) *Repository {
	if key == "" {
		key = config.StoreKey
	}
	return &Repository{store: s, key: key}
}

// Load returns the stored records in their stored order. An absent key is an
// empty collection.
func (r *Repository) Load(ctx context.Context) ([]engine.Anniversary, error) {
	data, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if !found || len(data) == 0 {
		return nil, nil
	}

	var records []engine.Anniversary
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreDecode, err)
	}
	return records, nil
}

// Save replaces the stored collection.
func (r *Repository) Save(ctx context.Context, records []engine.Anniversary) error {
	if records == nil {
		records = []engine.Anniversary{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreEncode, err)
	}
	return r.store.Set(ctx, r.key, data)
}
