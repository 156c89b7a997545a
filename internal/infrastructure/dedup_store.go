package infrastructure

import "sync"

// DedupStore tracks message IDs that were already processed, for the
// lifetime of this process. The platform redelivers webhooks on any
// non-2xx response, so duplicate delivery is expected and common.
type DedupStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedupStore() *DedupStore {
	return &DedupStore{seen: make(map[string]struct{})}
}

// MarkIfNew atomically records the id and reports whether it was new.
// Two concurrent deliveries of the same id get exactly one true.
func (d *DedupStore) MarkIfNew(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	return true
}

// HasProcessed reports whether the id was marked before.
func (d *DedupStore) HasProcessed(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[id]
	return ok
}

// MarkProcessed records the id unconditionally.
func (d *DedupStore) MarkProcessed(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[id] = struct{}{}
}

// SeenSenders tracks senders that already triggered a first-contact
// escalation. Same process-lifetime, insert-only profile as DedupStore.
type SeenSenders struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewSeenSenders() *SeenSenders {
	return &SeenSenders{seen: make(map[string]struct{})}
}

// MarkIfNew atomically registers the sender and reports first contact.
// The check and the insert happen under one lock so two concurrent
// messages from a new sender produce a single first-contact alert.
func (s *SeenSenders) MarkIfNew(senderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[senderID]; ok {
		return false
	}
	s.seen[senderID] = struct{}{}
	return true
}

// Has reports whether the sender was seen before.
func (s *SeenSenders) Has(senderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[senderID]
	return ok
}
