package core

import "sync"

// SubscriptionID is an opaque handle returned by a Topic's Subscribe.
// Subscription IDs are monotonically increasing and stable for the
// lifetime of the topic (spec §4.7, §9).
type SubscriptionID uint64

// Topic is a process-wide, multi-subscriber notification channel for a
// single argument type. Callbacks run on the caller's thread and are
// fanned out in subscription order; Topic holds no internal lock across a
// callback, so a reentrant subscriber cannot deadlock against Notify
// (spec §9, "Observer pattern").
type Topic[T any] struct {
	mu        sync.Mutex
	nextID    SubscriptionID
	listeners map[SubscriptionID]func(T)
	order     []SubscriptionID
}

// NewTopic returns an empty topic.
func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{listeners: make(map[SubscriptionID]func(T))}
}

// Subscribe registers cb and returns a stable ID for later Unsubscribe.
func (t *Topic[T]) Subscribe(cb func(T)) SubscriptionID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.listeners[id] = cb
	t.order = append(t.order, id)
	return id
}

// Unsubscribe removes the callback registered under id. Unsubscribing an
// unknown ID is a no-op.
func (t *Topic[T]) Unsubscribe(id SubscriptionID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.listeners[id]; !ok {
		return
	}
	delete(t.listeners, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Notify fans out arg to every current subscriber, in subscription order.
// The subscriber snapshot is taken under lock, but callbacks themselves run
// unlocked so they may safely call Subscribe/Unsubscribe/Notify again.
func (t *Topic[T]) Notify(arg T) {
	t.mu.Lock()
	cbs := make([]func(T), 0, len(t.order))
	for _, id := range t.order {
		cbs = append(cbs, t.listeners[id])
	}
	t.mu.Unlock()

	for _, cb := range cbs {
		cb(arg)
	}
}
