// Package events fans out node events to subscribers. A subscriber can
// narrow the events it receives to a set of message prefixes.
package events

import (
	"fmt"
	"strings"
	"sync"
)

// subscriberBuffer is the number of events held for a subscriber that is
// not reading. Events sent to a full subscriber are dropped.
const subscriberBuffer = 100

type subscriber struct {
	ch       chan string
	prefixes []string
}

func (s subscriber) wants(msg string) bool {
	if len(s.prefixes) == 0 {
		return true
	}

	for _, prefix := range s.prefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}

	return false
}

// Events maintains the set of subscribers keyed by a unique id.
type Events struct {
	subs map[string]subscriber
	mu   sync.RWMutex
}

// New constructs an events value for registering and receiving events.
func New() *Events {
	return &Events{
		subs: make(map[string]subscriber),
	}
}

// Shutdown closes and removes every subscriber.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.subs {
		delete(evt.subs, id)
		close(sub.ch)
	}
}

// Acquire registers a subscriber under the id and returns the channel the
// events arrive on. With no prefixes every event is received. Acquiring an
// id that is already registered returns the existing channel.
func (evt *Events) Acquire(id string, prefixes ...string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.subs[id]; exists {
		return sub.ch
	}

	sub := subscriber{
		ch:       make(chan string, subscriberBuffer),
		prefixes: prefixes,
	}
	evt.subs[id] = sub

	return sub.ch
}

// Release closes and removes the subscriber registered under the id.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("subscriber %q does not exist", id)
	}

	delete(evt.subs, id)
	close(sub.ch)
	return nil
}

// Subscribers returns the number of registered subscribers.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Send delivers the message to every subscriber that wants it. Send never
// blocks on a subscriber.
func (evt *Events) Send(msg string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, sub := range evt.subs {
		if !sub.wants(msg) {
			continue
		}

		select {
		case sub.ch <- msg:
		default:
		}
	}
}
