package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EstatePulse/internal/domain/models"
	"EstatePulse/internal/service/feed"
	"EstatePulse/pkg/cache"
	xlogger "EstatePulse/pkg/logger"
)

type stubStore struct {
	mu        sync.Mutex
	inserted  []*models.IndicatorSnapshot
	insertErr error
}

func (s *stubStore) Insert(_ context.Context, snap *models.IndicatorSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, snap)
	return nil
}

func (s *stubStore) History(context.Context, time.Time, time.Time, int) ([]models.IndicatorSnapshot, error) {
	return nil, nil
}

func (s *stubStore) Health(context.Context) error { return nil }

func (s *stubStore) snapshots() []*models.IndicatorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.IndicatorSnapshot(nil), s.inserted...)
}

type stubNotifier struct {
	mu   sync.Mutex
	sets []*models.IndicatorSet
}

func (n *stubNotifier) NotifyIndicators(set *models.IndicatorSet) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sets = append(n.sets, set)
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sets)
}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func TestIngestHandlerAppliesUpdate(t *testing.T) {
	c := cache.NewMemoryCache()
	defer c.Close()
	store := &stubStore{}
	notifier := &stubNotifier{}

	h := NewIndicatorIngestHandler("indicator-updates", c, time.Minute, store, nil, testLogger(t), notifier)
	assert.Equal(t, "indicator-updates", h.Topic())

	update := models.FeedUpdate{
		Indicators: *fullIndicatorSet(),
		Source:     "central-bank",
		ObservedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Unix(),
	}
	payload, err := json.Marshal(update)
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), payload))

	// cache refreshed under the feed key
	var cached models.IndicatorSet
	require.NoError(t, c.Get(context.Background(), feed.KeyIndicators, &cached))
	assert.Equal(t, update.Indicators, cached)

	// snapshot persisted with the message timestamp and source
	snaps := store.snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, "central-bank", snaps[0].Source)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), snaps[0].TakenAt)
	assert.NotEmpty(t, snaps[0].ID)

	assert.Equal(t, 1, notifier.count())
}

func TestIngestHandlerDefaultsSourceAndTime(t *testing.T) {
	store := &stubStore{}
	h := NewIndicatorIngestHandler("indicator-updates", nil, 0, store, nil, testLogger(t), nil)

	payload, err := json.Marshal(models.FeedUpdate{Indicators: *fullIndicatorSet()})
	require.NoError(t, err)

	before := time.Now().UTC()
	require.NoError(t, h.Handle(context.Background(), payload))

	snaps := store.snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, "ingest", snaps[0].Source)
	assert.False(t, snaps[0].TakenAt.Before(before))
}

func TestIngestHandlerRejectsBadPayload(t *testing.T) {
	h := NewIndicatorIngestHandler("indicator-updates", nil, 0, nil, nil, testLogger(t), nil)
	err := h.Handle(context.Background(), []byte("{not json"))
	assert.Error(t, err)
}
