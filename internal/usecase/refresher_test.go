package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshOncePersistsAndNotifies(t *testing.T) {
	feed := &stubFeed{indicators: fullIndicatorSet()}
	store := &stubStore{}
	notifier := &stubNotifier{}

	r := NewSnapshotRefresher(feed, store, nil, testLogger(t), notifier, time.Hour)
	require.NoError(t, r.RefreshOnce(context.Background()))

	snaps := store.snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, "feed", snaps[0].Source)
	assert.NotEmpty(t, snaps[0].ID)
	assert.Equal(t, *fullIndicatorSet(), snaps[0].Indicators)
	assert.Equal(t, 1, notifier.count())
}

func TestRefreshOnceFeedFailure(t *testing.T) {
	feed := &stubFeed{indicatorsErr: errors.New("feed down")}
	store := &stubStore{}
	notifier := &stubNotifier{}

	r := NewSnapshotRefresher(feed, store, nil, testLogger(t), notifier, time.Hour)
	err := r.RefreshOnce(context.Background())
	assert.Error(t, err)
	assert.Empty(t, store.snapshots())
	assert.Equal(t, 0, notifier.count())
}

func TestRefreshOnceSurvivesStoreFailure(t *testing.T) {
	feed := &stubFeed{indicators: fullIndicatorSet()}
	store := &stubStore{insertErr: errors.New("insert failed")}
	notifier := &stubNotifier{}

	r := NewSnapshotRefresher(feed, store, nil, testLogger(t), notifier, time.Hour)
	// a persistence failure must not stop the notify path
	require.NoError(t, r.RefreshOnce(context.Background()))
	assert.Equal(t, 1, notifier.count())
}

func TestRefresherStartAndShutdown(t *testing.T) {
	feed := &stubFeed{indicators: fullIndicatorSet()}
	store := &stubStore{}

	r := NewSnapshotRefresher(feed, store, nil, testLogger(t), nil, time.Hour)
	require.NoError(t, r.Start(context.Background()))

	// first refresh runs immediately
	require.Eventually(t, func() bool {
		return len(store.snapshots()) == 1
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Shutdown(ctx))
}
