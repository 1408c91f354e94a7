package store

import (
	"sync"

	"tk905-svr/internal/codec"
)

// Entry is the latest known state for one device: the most recent usable
// position, plus the most recent non-positional record when that arrived
// after the position. A device that has only ever sent events gets an
// entry carrying identity fields and lastEvent alone.
type Entry struct {
	codec.Position
	LastEvent *codec.Event `json:"lastEvent,omitempty"`
}

// DeviceStore holds the per-device latest state shared between the TCP
// ingest pipeline (writers) and the query API (readers). Entries are
// copy-on-write: once published under the lock they are never mutated, so
// a reader can hold a returned *Entry without seeing a torn record.
type DeviceStore struct {
	mu      sync.RWMutex
	devices map[string]*Entry
}

func NewDeviceStore() *DeviceStore {
	return &DeviceStore{devices: make(map[string]*Entry)}
}

// Put replaces the device's entry wholesale with a fresh position.
func (s *DeviceStore) Put(p *codec.Position) {
	e := &Entry{Position: *p}
	s.mu.Lock()
	s.devices[p.DeviceID] = e
	s.mu.Unlock()
}

// Merge attaches ev as the device's lastEvent, keeping whatever position
// fields the entry already holds. A device never seen before gets an entry
// with only its identity and the event.
func (s *DeviceStore) Merge(ev *codec.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &Entry{}
	if prev, ok := s.devices[ev.DeviceID]; ok {
		*e = *prev
	} else {
		e.DeviceID = ev.DeviceID
		e.Vendor = ev.Vendor
	}
	e.LastEvent = ev
	s.devices[ev.DeviceID] = e
}

func (s *DeviceStore) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.devices[id]
	return e, ok
}

// Snapshot returns a point-in-time copy of the device map. The entries
// themselves are shared immutable values.
func (s *DeviceStore) Snapshot() map[string]*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*Entry, len(s.devices))
	for id, e := range s.devices {
		out[id] = e
	}
	return out
}

func (s *DeviceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}
