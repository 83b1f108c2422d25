package storage

import (
	"context"
	"fmt"

	"github.com/wippyai/wasm96/errors"
)

// MaxValueSize bounds a single saved value
const MaxValueSize = 16 << 20

// Drivers accepted by Open
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Store persists guest key/value data
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
	// Load returns the value and whether it exists
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Close() error
}

// Open creates a store for driver. path is ignored by the memory driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		s, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.InvalidInput(errors.PhaseStorage, fmt.Sprintf("unknown storage driver %q", driver))
	}
}

func checkValue(key string, data []byte) error {
	if len(data) > MaxValueSize {
		return errors.New(errors.PhaseStorage, errors.KindInvalidInput).
			Path("key", key).
			Value(len(data)).
			Detail("value exceeds %d bytes", MaxValueSize).
			Build()
	}
	return nil
}
