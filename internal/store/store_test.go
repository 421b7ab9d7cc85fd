package store

import (
	"path/filepath"
	"testing"

	"github.com/campusplanner/planner/internal/selection"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFilterStateRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.LoadFilterState()
	if err != nil {
		t.Fatalf("load before save: %v", err)
	}
	if ok {
		t.Fatal("empty store reports saved filter state")
	}

	want := []byte(`{"filters":[{"id":"term"}]}`)
	if err := s.SaveFilterState(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.LoadFilterState()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(got) != string(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestFilterStateOverwrite(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveFilterState([]byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveFilterState([]byte("new")); err != nil {
		t.Fatal(err)
	}
	got, _, err := s.LoadFilterState()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("got %s, want new", got)
	}
}

func TestSelectionsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	loaded, err := s.LoadSelections()
	if err != nil {
		t.Fatalf("load before save: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatal("empty store returned selections")
	}

	want := []selection.StoredSelection{
		{CourseID: "CS-2303", SectionNumber: "A01", Required: true},
		{CourseID: "MA-2611"},
	}
	if err := s.SaveSelections(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadSelections()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d selections, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selection %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCatalogSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.LoadCatalogSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("empty store reports a snapshot")
	}

	want := []byte(`{"departments":[]}`)
	if err := s.SaveCatalogSnapshot(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.LoadCatalogSnapshot()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(got) != string(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestKeysIndependent(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveFilterState([]byte("filters")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCatalogSnapshot([]byte("catalog")); err != nil {
		t.Fatal(err)
	}

	filters, _, err := s.LoadFilterState()
	if err != nil {
		t.Fatal(err)
	}
	snapshot, _, err := s.LoadCatalogSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if string(filters) != "filters" || string(snapshot) != "catalog" {
		t.Error("keys bleed into each other")
	}
}

func TestInMemoryStore(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	defer s.Close()

	if err := s.SaveFilterState([]byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.LoadFilterState()
	if err != nil || !ok || string(got) != "x" {
		t.Errorf("in-memory round trip failed: %s ok=%v err=%v", got, ok, err)
	}
}
