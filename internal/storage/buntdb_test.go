package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMarkerStore_StartupDefaultsToUnsent(t *testing.T) {
	store, err := NewFromMemory()
	require.NoError(t, err)
	defer store.Close()

	sent, err := store.StartupSent()
	require.NoError(t, err)
	require.False(t, sent)
}

func TestMarkerStore_StartupRoundtrip(t *testing.T) {
	store, err := NewFromMemory()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.MarkStartupSent())

	sent, err := store.StartupSent()
	require.NoError(t, err)
	require.True(t, sent)
}

func TestMarkerStore_LastNotificationDefaultsToZero(t *testing.T) {
	store, err := NewFromMemory()
	require.NoError(t, err)
	defer store.Close()

	last, err := store.LastNotification()
	require.NoError(t, err)
	require.True(t, last.IsZero())
}

func TestMarkerStore_LastNotificationRoundtrip(t *testing.T) {
	store, err := NewFromMemory()
	require.NoError(t, err)
	defer store.Close()

	stamp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetLastNotification(stamp))

	last, err := store.LastNotification()
	require.NoError(t, err)
	require.True(t, stamp.Equal(last))
}

func TestMarkerStore_SurvivesReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "markers.db")

	store, err := NewFromFile(file)
	require.NoError(t, err)

	stamp := time.Unix(1717243200, 0)
	require.NoError(t, store.MarkStartupSent())
	require.NoError(t, store.SetLastNotification(stamp))
	require.NoError(t, store.Close())

	reopened, err := NewFromFile(file)
	require.NoError(t, err)
	defer reopened.Close()

	sent, err := reopened.StartupSent()
	require.NoError(t, err)
	require.True(t, sent)

	last, err := reopened.LastNotification()
	require.NoError(t, err)
	require.True(t, stamp.Equal(last))
}
