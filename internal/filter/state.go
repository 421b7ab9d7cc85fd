package filter

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/campusplanner/planner/internal/logging"
)

// transientFilters are never restored from persisted state: a session
// starts with fresh search text and department selection.
var transientFilters = map[string]bool{
	"searchText": true,
	"department": true,
}

// State is the insertion-ordered set of active filters.
//
// Adding a filter whose id is already active replaces its criteria in
// place without duplicating the entry or losing its position. All
// mutations fan a typed Event out to registered listeners.
//
// Safe for concurrent use: the UI goroutine mutates the active set
// while filter passes read it from worker goroutines. Listeners are
// invoked outside the lock with a snapshot of the active set.
type State struct {
	mu        sync.Mutex
	order     []string
	active    map[string]*ActiveFilter
	listeners []Listener
}

// NewState creates an empty State.
func NewState() *State {
	return &State{active: make(map[string]*ActiveFilter)}
}

// AddFilter activates a filter, replacing criteria if the id is
// already active.
func (s *State) AddFilter(id, name string, criteria any, displayValue string) {
	s.mu.Lock()
	if existing, ok := s.active[id]; ok {
		existing.Criteria = criteria
		existing.DisplayValue = displayValue
	} else {
		s.active[id] = &ActiveFilter{ID: id, Name: name, Criteria: criteria, DisplayValue: displayValue}
		s.order = append(s.order, id)
	}
	ev := Event{Type: EventAdd, FilterID: id, Criteria: criteria, ActiveFilters: s.activeLocked()}
	listeners := s.listenersLocked()
	s.mu.Unlock()
	notify(ev, listeners)
}

// UpdateFilter replaces criteria for an already-active filter.
// Returns false if the filter is not active.
func (s *State) UpdateFilter(id string, criteria any, displayValue string) bool {
	s.mu.Lock()
	existing, ok := s.active[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	existing.Criteria = criteria
	existing.DisplayValue = displayValue
	ev := Event{Type: EventUpdate, FilterID: id, Criteria: criteria, ActiveFilters: s.activeLocked()}
	listeners := s.listenersLocked()
	s.mu.Unlock()
	notify(ev, listeners)
	return true
}

// RemoveFilter deactivates a filter. Returns false if it was not
// active.
func (s *State) RemoveFilter(id string) bool {
	s.mu.Lock()
	if _, ok := s.active[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.active, id)
	for i, fid := range s.order {
		if fid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	ev := Event{Type: EventRemove, FilterID: id, ActiveFilters: s.activeLocked()}
	listeners := s.listenersLocked()
	s.mu.Unlock()
	notify(ev, listeners)
	return true
}

// ClearFilters deactivates everything.
func (s *State) ClearFilters() {
	s.mu.Lock()
	s.active = make(map[string]*ActiveFilter)
	s.order = nil
	listeners := s.listenersLocked()
	s.mu.Unlock()
	notify(Event{Type: EventClear, ActiveFilters: []ActiveFilter{}}, listeners)
}

// HasFilter reports whether the id is active.
func (s *State) HasFilter(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[id]
	return ok
}

// Filter returns a copy of the active entry for id, or nil.
func (s *State) Filter(id string) *ActiveFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.active[id]
	if !ok {
		return nil
	}
	cp := *f
	return &cp
}

// ActiveFilters returns the active set in insertion order.
func (s *State) ActiveFilters() []ActiveFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

// Count returns the number of active filters.
func (s *State) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// IsEmpty reports whether no filters are active.
func (s *State) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active) == 0
}

// AddListener registers a change listener.
func (s *State) AddListener(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *State) activeLocked() []ActiveFilter {
	out := make([]ActiveFilter, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.active[id])
	}
	return out
}

func (s *State) listenersLocked() []Listener {
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func notify(event Event, listeners []Listener) {
	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.Error("filter listener panicked", "error", r)
				}
			}()
			l(event)
		}()
	}
}

// serializedState is the persisted wire form. Criteria are kept as raw
// JSON; the Service re-decodes them through each rule's DecodeCriteria
// on load.
type serializedState struct {
	Filters []serializedFilter `json:"filters"`
}

type serializedFilter struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Criteria     json.RawMessage `json:"criteria"`
	DisplayValue string          `json:"displayValue"`
}

// Serialize encodes the active set, skipping the given filter ids.
func (s *State) Serialize(exclude ...string) ([]byte, error) {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := serializedState{Filters: []serializedFilter{}}
	for _, id := range s.order {
		if skip[id] {
			continue
		}
		f := s.active[id]
		criteria, err := json.Marshal(f.Criteria)
		if err != nil {
			return nil, fmt.Errorf("serialize filter %q: %w", id, err)
		}
		out.Filters = append(out.Filters, serializedFilter{
			ID:           f.ID,
			Name:         f.Name,
			Criteria:     criteria,
			DisplayValue: f.DisplayValue,
		})
	}
	return json.Marshal(out)
}

// Deserialize replaces the active set with persisted state, skipping
// transient filters. Criteria stay as json.RawMessage until the
// Service re-decodes them against the registered rules. A single
// EventClear is fired once the new state is in place.
func (s *State) Deserialize(data []byte) error {
	var in serializedState
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("deserialize filter state: %w", err)
	}

	s.mu.Lock()
	s.active = make(map[string]*ActiveFilter)
	s.order = nil
	for _, f := range in.Filters {
		if transientFilters[f.ID] {
			continue
		}
		s.active[f.ID] = &ActiveFilter{ID: f.ID, Name: f.Name, Criteria: f.Criteria, DisplayValue: f.DisplayValue}
		s.order = append(s.order, f.ID)
	}
	ev := Event{Type: EventClear, ActiveFilters: s.activeLocked()}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(ev, listeners)
	return nil
}
