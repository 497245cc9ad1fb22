// Package store persists opaque byte values under string keys.
// Anniversaries are kept as one JSON array under a single key.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tartampluch/go-anniversary/internal/config"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store is a key-value store. Get reports found=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error

	// Path is the file backing the store, or "" when it has none.
	Path() string
	Close() error
}

// Open creates the store selected by driver inside dataDir. key is the key
// the collection is saved under; the file backend reports its file as Path.
func Open(driver, dataDir, key string) (Store, error) {
	if key == "" {
		key = config.StoreKey
	}
	if err := os.MkdirAll(dataDir, config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	var (
		s   Store
		err error
	)
	switch driver {
	case config.StoreDriverSQLite:
		s, err = NewSQLite(dataDir)
	case config.StoreDriverFile:
		s, err = NewFile(dataDir, key)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrStoreDriver, driver)
	}
	if err != nil {
		return nil, err
	}

	slog.Info(config.MsgStoreOpened,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyDriver, driver,
		config.LogKeyFile, s.Path())
	return s, nil
}
