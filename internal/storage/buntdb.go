// Package storage persists the notification markers using BuntDB
package storage

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"chartpulse/internal/core"

	"github.com/tidwall/buntdb"
)

const (
	startupKey          = "marker:startup"
	lastNotificationKey = "marker:last_notification"
)

// BuntMarkerStore implements core.MarkerStore on a BuntDB file
type BuntMarkerStore struct {
	db *buntdb.DB
}

// BuntConfig holds configuration options for BuntDB
type BuntConfig struct {
	// SyncPolicy determines how often data is synchronized to disk
	SyncPolicy buntdb.SyncPolicy
}

// DefaultBuntConfig returns the default configuration for BuntDB.
// Markers must survive restarts, so writes are flushed eagerly.
func DefaultBuntConfig() BuntConfig {
	return BuntConfig{SyncPolicy: buntdb.Always}
}

// NewFromMemory creates an in-memory marker store, used in tests
func NewFromMemory() (core.MarkerStore, error) {
	return NewBuntMarkerStore(":memory:", DefaultBuntConfig())
}

// NewFromFile creates a file-backed marker store with default configuration
func NewFromFile(file string) (core.MarkerStore, error) {
	return NewBuntMarkerStore(file, DefaultBuntConfig())
}

// NewBuntMarkerStore opens a marker store with the given configuration
func NewBuntMarkerStore(sourceFile string, config BuntConfig) (core.MarkerStore, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	if err := db.SetConfig(buntdb.Config{
		SyncPolicy: config.SyncPolicy,
	}); err != nil {
		return nil, fmt.Errorf("failed to configure buntdb: %w", err)
	}

	return &BuntMarkerStore{db: db}, nil
}

// StartupSent reports whether the one-time startup announcement was
// already delivered for this store's lifetime
func (b *BuntMarkerStore) StartupSent() (bool, error) {
	var sent bool

	err := b.db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get(startupKey)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		sent = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to read startup marker: %w", err)
	}

	return sent, nil
}

// MarkStartupSent records that the startup announcement went out
func (b *BuntMarkerStore) MarkStartupSent() error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(startupKey, "1", nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write startup marker: %w", err)
	}

	return nil
}

// LastNotification returns when the last snapshot delivery succeeded.
// A zero time means no delivery was ever recorded.
func (b *BuntMarkerStore) LastNotification() (time.Time, error) {
	var last time.Time

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(lastNotificationKey)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		seconds, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("malformed timestamp %q: %w", value, err)
		}

		last = time.Unix(seconds, 0)
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read notification marker: %w", err)
	}

	return last, nil
}

// SetLastNotification records a confirmed snapshot delivery time
func (b *BuntMarkerStore) SetLastNotification(t time.Time) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(lastNotificationKey, strconv.FormatInt(t.Unix(), 10), nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write notification marker: %w", err)
	}

	return nil
}

// Close closes the underlying database
func (b *BuntMarkerStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
