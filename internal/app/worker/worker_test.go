package worker

import (
	"encoding/json"
	"testing"
	"time"

	"interior-media/internal/config"
	"interior-media/internal/domain"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func newTestWorker(t *testing.T) *Worker {
	t.Helper()
	zlog.Init()

	return &Worker{
		cfg: &config.Config{
			Worker: config.WorkerConfig{
				PendingTTL:    30 * time.Minute,
				CheckInterval: time.Minute,
			},
		},
		logger:  &zlog.Logger,
		pending: make(map[string]time.Time),
	}
}

func marshalEvent(t *testing.T, event domain.StatusEvent) []byte {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return value
}

func TestWorker_TracksPendingImages(t *testing.T) {
	w := newTestWorker(t)

	w.handleEvent(marshalEvent(t, domain.StatusEvent{
		ImageID:   "img-1",
		Status:    domain.StatusPending,
		Timestamp: time.Now().Unix(),
	}))

	require.Contains(t, w.pending, "img-1")
}

func TestWorker_CompletionClearsPending(t *testing.T) {
	w := newTestWorker(t)

	w.handleEvent(marshalEvent(t, domain.StatusEvent{
		ImageID:   "img-1",
		Status:    domain.StatusPending,
		Timestamp: time.Now().Unix(),
	}))
	w.handleEvent(marshalEvent(t, domain.StatusEvent{
		ImageID:   "img-1",
		Status:    domain.StatusCompleted,
		Timestamp: time.Now().Unix(),
	}))

	require.NotContains(t, w.pending, "img-1")
}

func TestWorker_MalformedEventIgnored(t *testing.T) {
	w := newTestWorker(t)

	w.handleEvent([]byte("not json"))

	require.Empty(t, w.pending)
}

func TestWorker_OrphanStaysTracked(t *testing.T) {
	w := newTestWorker(t)

	// A pending event with no completion is exactly the finalize-failure
	// orphan: it must survive report cycles until reconciled out of band.
	w.handleEvent(marshalEvent(t, domain.StatusEvent{
		ImageID:   "img-orphan",
		Status:    domain.StatusPending,
		Timestamp: time.Now().Add(-time.Hour).Unix(),
	}))

	w.reportOrphans()

	require.Contains(t, w.pending, "img-orphan")
}
