package entries

import (
	"sync"
)

// Publisher receives every store mutation, in the order the store
// applied it. The broadcast bus implements this.
type Publisher interface {
	Publish(entry Entry)
}

// Store is the canonical id -> entry mapping. All mutations happen
// inside a single critical section, and every mutation is handed to the
// publisher before the lock is released so publish order matches apply
// order.
type Store struct {
	mu        sync.Mutex
	entries   []*Entry
	index     map[string]int
	publisher Publisher
}

// NewStore creates an empty store. publisher may be nil, in which case
// mutations are applied silently.
func NewStore(publisher Publisher) *Store {
	return &Store{
		index:     make(map[string]int),
		publisher: publisher,
	}
}

// Put upserts an entry. A missing id gets a time-based one. When append
// is true and an entry with the same id exists, data is merged per
// AppendData; otherwise incoming data replaces the existing data. A
// non-empty view replaces the stored view.
//
// The clear sentinel is never stored: it is published to viewers and
// the store is left untouched. Wiping the store is the job of Clear.
func (s *Store) Put(id string, data any, view string, appendData bool) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if IsClear(data) {
		entry := Entry{ID: id, Data: ClearSentinel, View: view}
		s.publish(entry)
		return entry
	}

	if id == "" {
		id = NewID()
	}

	if pos, ok := s.index[id]; ok {
		existing := s.entries[pos]
		if appendData {
			existing.Data = AppendData(existing.Data, data)
		} else {
			existing.Data = data
		}
		if view != "" {
			existing.View = view
		}
		s.publish(*existing)
		return *existing
	}

	entry := &Entry{ID: id, Data: data, View: view}
	s.index[id] = len(s.entries)
	s.entries = append(s.entries, entry)
	s.publish(*entry)
	return *entry
}

// Delete removes the entry with the given id. Deleting an unknown id is
// a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return
	}
	s.entries = append(s.entries[:pos], s.entries[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.entries); i++ {
		s.index[s.entries[i].ID] = i
	}
}

// Clear empties the store and publishes the clear sentinel so every
// connected viewer wipes its display.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.index = make(map[string]int)
	s.publish(Entry{Data: ClearSentinel})
}

// List returns a snapshot of all entries in insertion order. The clear
// sentinel is never part of the result. The snapshot is always non-nil
// so it serializes as a JSON array.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]Entry, len(s.entries))
	for i, entry := range s.entries {
		snapshot[i] = *entry
	}
	return snapshot
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) publish(entry Entry) {
	if s.publisher != nil {
		s.publisher.Publish(entry)
	}
}
