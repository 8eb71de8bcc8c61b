package scheduler

import (
	"sync"
	"time"
)

// Scheduler runs delayed one-shot tasks keyed by an entity id, so a pending
// task can be canceled when the entity it would touch gets deleted. Fired or
// canceled tasks are removed from the key's slot.
type Scheduler struct {
	mu     sync.Mutex
	nextID int
	tasks  map[string]map[int]*time.Timer
}

func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]map[int]*time.Timer)}
}

// Schedule runs fn after d unless the key is canceled first.
func (s *Scheduler) Schedule(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	if s.tasks[key] == nil {
		s.tasks[key] = make(map[int]*time.Timer)
	}
	s.tasks[key][id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		_, ok := s.tasks[key][id]
		if ok {
			delete(s.tasks[key], id)
			if len(s.tasks[key]) == 0 {
				delete(s.tasks, key)
			}
		}
		s.mu.Unlock()
		if ok {
			fn()
		}
	})
}

// Cancel stops every pending task for key.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tasks[key] {
		t.Stop()
		delete(s.tasks[key], id)
	}
	delete(s.tasks, key)
}

// CancelAll stops everything; used on shutdown.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, slot := range s.tasks {
		for _, t := range slot {
			t.Stop()
		}
		delete(s.tasks, key)
	}
}

// Pending reports how many tasks are queued for key.
func (s *Scheduler) Pending(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks[key])
}
