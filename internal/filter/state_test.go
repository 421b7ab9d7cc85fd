package filter

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
)

func TestAddFilterReplacesInPlace(t *testing.T) {
	s := NewState()
	s.AddFilter("term", "Term", "A", "Term: A")
	s.AddFilter("department", "Department", "CS", "Department: CS")
	s.AddFilter("term", "Term", "B", "Term: B")

	active := s.ActiveFilters()
	if len(active) != 2 {
		t.Fatalf("got %d active filters, want 2 (no duplicates)", len(active))
	}
	// Replacement keeps the original position.
	if active[0].ID != "term" || active[1].ID != "department" {
		t.Errorf("order = [%s %s], want [term department]", active[0].ID, active[1].ID)
	}
	if active[0].Criteria != "B" {
		t.Errorf("criteria = %v, want B", active[0].Criteria)
	}
}

func TestRemoveFilter(t *testing.T) {
	s := NewState()
	s.AddFilter("a", "A", 1, "1")
	s.AddFilter("b", "B", 2, "2")

	if !s.RemoveFilter("a") {
		t.Error("RemoveFilter(a) = false, want true")
	}
	if s.RemoveFilter("a") {
		t.Error("removing twice should return false")
	}
	if s.HasFilter("a") || !s.HasFilter("b") {
		t.Error("wrong filter removed")
	}
}

func TestEvents(t *testing.T) {
	s := NewState()
	var events []Event
	s.AddListener(func(e Event) { events = append(events, e) })

	s.AddFilter("a", "A", 1, "1")
	s.UpdateFilter("a", 2, "2")
	s.RemoveFilter("a")
	s.ClearFilters()

	want := []EventType{EventAdd, EventUpdate, EventRemove, EventClear}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event %d type = %s, want %s", i, e.Type, want[i])
		}
	}
}

func TestListenerPanicIsolated(t *testing.T) {
	s := NewState()
	var called bool
	s.AddListener(func(Event) { panic("boom") })
	s.AddListener(func(Event) { called = true })

	s.AddFilter("a", "A", 1, "1")
	if !called {
		t.Error("panicking listener prevented later listeners from running")
	}
}

func TestSerializeExcludesTransients(t *testing.T) {
	s := NewState()
	s.AddFilter("searchText", "Search Text", map[string]string{"query": "algo"}, `"algo"`)
	s.AddFilter("term", "Term", map[string][]string{"terms": {"A"}}, "Term: A")
	s.AddFilter("department", "Department", map[string][]string{"departments": {"CS"}}, "Department: CS")

	data, err := s.Serialize("searchText", "department")
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	restored := NewState()
	if err := restored.Deserialize(data); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	active := restored.ActiveFilters()
	if len(active) != 1 || active[0].ID != "term" {
		t.Fatalf("restored filters = %v, want only term", active)
	}
	// Criteria stay raw until the service re-decodes them.
	if _, ok := active[0].Criteria.(json.RawMessage); !ok {
		t.Errorf("restored criteria type %T, want json.RawMessage", active[0].Criteria)
	}
}

func TestDeserializeSkipsTransientEntries(t *testing.T) {
	// A persisted blob that still contains a transient entry (older
	// format) must not resurrect it.
	blob := `{"filters":[
		{"id":"searchText","name":"Search Text","criteria":{"query":"x"},"displayValue":"\"x\""},
		{"id":"term","name":"Term","criteria":{"terms":["A"]},"displayValue":"Term: A"}
	]}`

	s := NewState()
	if err := s.Deserialize([]byte(blob)); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if s.HasFilter("searchText") {
		t.Error("transient searchText filter restored from persistence")
	}
	if !s.HasFilter("term") {
		t.Error("term filter not restored")
	}
}

func TestDeserializeMalformed(t *testing.T) {
	s := NewState()
	if err := s.Deserialize([]byte("{nope")); err == nil {
		t.Fatal("expected error for malformed state")
	}
}

func TestStateConcurrentUse(t *testing.T) {
	// The UI goroutine mutates the active set while filter passes read
	// it from worker goroutines; both directions must be safe at once.
	s := NewState()
	s.AddListener(func(Event) {})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(2)
		id := fmt.Sprintf("f%d", g)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.AddFilter(id, "F", i, "v")
				s.UpdateFilter(id, i+1, "v")
				s.RemoveFilter(id)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.IsEmpty()
				s.ActiveFilters()
				s.HasFilter(id)
				s.Filter(id)
				s.Count()
			}
		}()
	}
	wg.Wait()

	if !s.IsEmpty() {
		t.Errorf("got %d filters left active, want 0", s.Count())
	}
}

func TestFilterReturnsCopy(t *testing.T) {
	s := NewState()
	s.AddFilter("term", "Term", "A", "Term: A")

	f := s.Filter("term")
	f.Criteria = "mutated"

	if got := s.Filter("term").Criteria; got != "A" {
		t.Errorf("criteria = %v, internal state leaked through Filter", got)
	}
}
