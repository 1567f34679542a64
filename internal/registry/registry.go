// Package registry хранит подписчиков рассылки на время жизни процесса.
package registry

import (
	"sort"
	"sync"
)

// Registry — множество чатов-получателей. Не переживает рестарт.
type Registry struct {
	mu    sync.RWMutex
	chats map[int64]struct{}
}

// New seeds the registry, usually with the administrator chats.
func New(seed ...int64) *Registry {
	r := &Registry{chats: make(map[int64]struct{}, len(seed))}
	for _, id := range seed {
		r.chats[id] = struct{}{}
	}
	return r
}

// Add inserts the chat and reports whether it was new.
func (r *Registry) Add(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[id]; ok {
		return false
	}
	r.chats[id] = struct{}{}
	return true
}

// Remove drops the chat and reports whether it was present.
func (r *Registry) Remove(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[id]; !ok {
		return false
	}
	delete(r.chats, id)
	return true
}

func (r *Registry) Contains(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.chats[id]
	return ok
}

// All returns a sorted snapshot, safe to range over while the
// registry keeps mutating.
func (r *Registry) All() []int64 {
	r.mu.RLock()
	out := make([]int64, 0, len(r.chats))
	for id := range r.chats {
		out = append(out, id)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chats)
}
