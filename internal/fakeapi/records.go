package fakeapi

import "sync"

// records is a per-user collection kept in insertion order.
type records[T any] struct {
	mu     sync.RWMutex
	byUser map[string][]*T
	id     func(*T) string
}

func newRecords[T any](id func(*T) string) *records[T] {
	return &records[T]{byUser: make(map[string][]*T), id: id}
}

func (r *records[T]) add(userID string, item T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = append(r.byUser[userID], &item)
	return item
}

// list returns copies, newest first, at most limit when limit > 0.
func (r *records[T]) list(userID string, limit int) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.byUser[userID]
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, *items[i])
	}
	return out
}

func (r *records[T]) find(userID, id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.byUser[userID] {
		if r.id(item) == id {
			return *item, true
		}
	}
	var zero T
	return zero, false
}

func (r *records[T]) update(userID, id string, fn func(*T)) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.byUser[userID] {
		if r.id(item) == id {
			fn(item)
			return *item, true
		}
	}
	var zero T
	return zero, false
}

func (r *records[T]) remove(userID, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.byUser[userID]
	for i, item := range items {
		if r.id(item) == id {
			r.byUser[userID] = append(items[:i], items[i+1:]...)
			return true
		}
	}
	return false
}

func (r *records[T]) removeUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
}
