package uploader

import (
	"sync"
	"testing"

	"interior-media/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestProgressStore_RegisterUpdateRemove(t *testing.T) {
	store := NewProgressStore()

	store.Register(domain.UploadTask{FileID: "f1", Status: domain.TaskValidating})

	task, ok := store.Get("f1")
	require.True(t, ok)
	require.Equal(t, domain.TaskValidating, task.Status)

	store.Update("f1", func(t *domain.UploadTask) {
		t.Status = domain.TaskUploading
		t.Progress = 0.5
	})

	task, ok = store.Get("f1")
	require.True(t, ok)
	require.Equal(t, domain.TaskUploading, task.Status)
	require.Equal(t, 0.5, task.Progress)

	store.Remove("f1")
	_, ok = store.Get("f1")
	require.False(t, ok)
}

func TestProgressStore_UpdateUnknownTaskIgnored(t *testing.T) {
	store := NewProgressStore()

	store.Update("missing", func(t *domain.UploadTask) {
		t.Status = domain.TaskError
	})

	require.Empty(t, store.Tasks())
}

func TestProgressStore_SubscriberSeesEveryChange(t *testing.T) {
	store := NewProgressStore()

	var mu sync.Mutex
	var seen []domain.TaskStatus
	store.Subscribe(func(task domain.UploadTask) {
		mu.Lock()
		seen = append(seen, task.Status)
		mu.Unlock()
	})

	store.Register(domain.UploadTask{FileID: "f1", Status: domain.TaskValidating})
	store.Update("f1", func(t *domain.UploadTask) { t.Status = domain.TaskUploading })
	store.Update("f1", func(t *domain.UploadTask) { t.Status = domain.TaskCompleted })
	store.Remove("f1")

	require.Equal(t, []domain.TaskStatus{
		domain.TaskValidating,
		domain.TaskUploading,
		domain.TaskCompleted,
		domain.TaskCompleted, // final copy delivered on removal
	}, seen)
}

func TestProgressStore_ConcurrentPipelines(t *testing.T) {
	store := NewProgressStore()

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fileID := string(rune('a' + i%26))
			store.Register(domain.UploadTask{FileID: fileID, Status: domain.TaskUploading})
			for p := 0.0; p <= 1.0; p += 0.1 {
				store.Update(fileID, func(t *domain.UploadTask) {
					if p > t.Progress {
						t.Progress = p
					}
				})
			}
		}(i)
	}
	wg.Wait()

	for _, task := range store.Tasks() {
		require.InDelta(t, 1.0, task.Progress, 0.01)
	}
}
