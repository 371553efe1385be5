package uploader

import (
	"sync"

	"interior-media/internal/domain"
)

// ProgressStore owns the per-file task map. Pipelines mutate it concurrently,
// keyed by unique fileId; observers receive a copy of a task after every
// change and a final copy when a task is removed.
type ProgressStore struct {
	mu    sync.RWMutex
	tasks map[string]*domain.UploadTask
	subs  []func(domain.UploadTask)
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		tasks: make(map[string]*domain.UploadTask),
	}
}

// Subscribe registers an observer. Observers are invoked synchronously, off
// the store lock, with value copies.
func (s *ProgressStore) Subscribe(fn func(domain.UploadTask)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *ProgressStore) Register(task domain.UploadTask) {
	s.mu.Lock()
	t := task
	s.tasks[task.FileID] = &t
	subs, snapshot := s.subs, t
	s.mu.Unlock()

	s.notify(subs, snapshot)
}

// Update applies mutate to the task under the lock, then notifies observers.
// Unknown fileIds are ignored.
func (s *ProgressStore) Update(fileID string, mutate func(t *domain.UploadTask)) {
	s.mu.Lock()
	t, ok := s.tasks[fileID]
	if !ok {
		s.mu.Unlock()
		return
	}
	mutate(t)
	subs, snapshot := s.subs, *t
	s.mu.Unlock()

	s.notify(subs, snapshot)
}

func (s *ProgressStore) Remove(fileID string) {
	s.mu.Lock()
	t, ok := s.tasks[fileID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, fileID)
	subs, snapshot := s.subs, *t
	s.mu.Unlock()

	s.notify(subs, snapshot)
}

func (s *ProgressStore) Get(fileID string) (domain.UploadTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[fileID]
	if !ok {
		return domain.UploadTask{}, false
	}
	return *t, true
}

func (s *ProgressStore) Tasks() []domain.UploadTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]domain.UploadTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, *t)
	}
	return tasks
}

func (s *ProgressStore) notify(subs []func(domain.UploadTask), task domain.UploadTask) {
	for _, fn := range subs {
		fn(task)
	}
}
