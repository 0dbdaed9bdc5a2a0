package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockStatsProvider struct {
	mu    sync.Mutex
	stats Stats
	err   error
	calls int
}

func (m *mockStatsProvider) GetStats(context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.stats, m.err
}

func (m *mockStatsProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockDBUpdater struct {
	mu    sync.Mutex
	calls int
}

func (m *mockDBUpdater) UpdateDBMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *mockDBUpdater) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestCollectorCollectsImmediately(t *testing.T) {
	provider := &mockStatsProvider{stats: Stats{ContainerPlaylists: 3, StoredPlaylists: 7, StoredTracks: 42}}
	db := &mockDBUpdater{}

	c := NewCollector(provider, db, time.Hour)
	c.Start()

	require.Eventually(t, func() bool { return provider.callCount() >= 1 }, time.Second, 5*time.Millisecond)
	c.Stop()

	assert.Equal(t, 1, db.callCount())
	assert.InDelta(t, 3, testutil.ToFloat64(ContainerPlaylists), 1e-9)
	assert.InDelta(t, 7, testutil.ToFloat64(StoredPlaylists), 1e-9)
	assert.InDelta(t, 42, testutil.ToFloat64(StoredTracks), 1e-9)
}

func TestCollectorTicks(t *testing.T) {
	provider := &mockStatsProvider{}

	c := NewCollector(provider, nil, 5*time.Millisecond)
	c.Start()
	defer c.Stop()

	require.Eventually(t, func() bool { return provider.callCount() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestCollectorProviderErrorKeepsGauges(t *testing.T) {
	StoredTracks.Set(11)
	provider := &mockStatsProvider{err: errors.New("database is locked")}

	c := NewCollector(provider, nil, time.Hour)
	c.Start()
	require.Eventually(t, func() bool { return provider.callCount() >= 1 }, time.Second, 5*time.Millisecond)
	c.Stop()

	assert.InDelta(t, 11, testutil.ToFloat64(StoredTracks), 1e-9)
}

func TestCollectorNilProvider(t *testing.T) {
	db := &mockDBUpdater{}
	c := NewCollector(nil, db, time.Hour)
	c.Start()
	c.Stop()

	assert.Equal(t, 1, db.callCount())
}

func TestCollectorStopIsIdempotent(t *testing.T) {
	c := NewCollector(nil, nil, time.Hour)
	c.Start()
	c.Stop()
	c.Stop()
}
