package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const testFeed = `{
	"generated": "2026-08-20",
	"departments": [
		{"abbreviation": "CS", "name": "Computer Science", "courses": [
			{"id": "CS-2303", "number": "2303", "name": "Systems Programming", "sections": []}
		]}
	]
}`

// memorySnapshot is an in-memory Snapshotter.
type memorySnapshot struct {
	data []byte
}

func (m *memorySnapshot) SaveCatalogSnapshot(data []byte) error { m.data = data; return nil }
func (m *memorySnapshot) LoadCatalogSnapshot() ([]byte, bool, error) {
	if m.data == nil {
		return nil, false, nil
	}
	return m.data, true, nil
}

func TestLoadFromHTTP(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	snap := &memorySnapshot{}
	l := NewLoader(snap)
	cat, err := l.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cat.Departments) != 1 || cat.Departments[0].Abbreviation != "CS" {
		t.Errorf("unexpected catalog: %+v", cat.Departments)
	}
	if gotUA != "Planner/0.1" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if snap.data == nil {
		t.Error("successful load did not update the snapshot")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	if err := os.WriteFile(path, []byte(testFeed), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil)
	cat, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cat.Generated != "2026-08-20" {
		t.Errorf("Generated = %q", cat.Generated)
	}
}

func TestLoadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLoader(nil)
	if _, err := l.Load(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestLoadBadFeedDoesNotOverwriteSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	snap := &memorySnapshot{data: []byte(testFeed)}
	l := NewLoader(snap)
	if _, err := l.Load(context.Background(), srv.URL); err == nil {
		t.Fatal("expected decode error")
	}
	if string(snap.data) != testFeed {
		t.Error("failed load clobbered the cached snapshot")
	}
}

func TestLoadMerged(t *testing.T) {
	feedA := `{"departments":[{"abbreviation":"CS","name":"Computer Science","courses":[]}]}`
	feedB := `{"departments":[{"abbreviation":"MA","name":"Mathematics","courses":[]}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			w.Write([]byte(feedA))
		case "/b":
			w.Write([]byte(feedB))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(nil)
	cat, err := l.LoadMerged(context.Background(), []string{srv.URL + "/a", srv.URL + "/b"})
	if err != nil {
		t.Fatalf("merged load failed: %v", err)
	}
	if len(cat.Departments) != 2 {
		t.Fatalf("got %d departments, want 2", len(cat.Departments))
	}
	// Departments merge in source order regardless of completion order.
	if cat.Departments[0].Abbreviation != "CS" || cat.Departments[1].Abbreviation != "MA" {
		t.Errorf("order = [%s %s], want [CS MA]", cat.Departments[0].Abbreviation, cat.Departments[1].Abbreviation)
	}
}

func TestLoadMergedOneSourceFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "nope", http.StatusBadGateway)
			return
		}
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	l := NewLoader(nil)
	if _, err := l.LoadMerged(context.Background(), []string{srv.URL + "/ok", srv.URL + "/bad"}); err == nil {
		t.Fatal("expected error when one source fails")
	}
}

func TestLoadCached(t *testing.T) {
	snap := &memorySnapshot{}
	l := NewLoader(snap)

	if _, ok, err := l.LoadCached(); ok || err != nil {
		t.Fatalf("empty snapshot: ok=%v err=%v", ok, err)
	}

	snap.data = []byte(testFeed)
	cat, ok, err := l.LoadCached()
	if err != nil || !ok {
		t.Fatalf("cached load: ok=%v err=%v", ok, err)
	}
	if len(cat.Departments) != 1 {
		t.Errorf("got %d departments, want 1", len(cat.Departments))
	}
}

func TestRefreshRateLimited(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	l := NewLoader(nil)
	if _, ok, err := l.Refresh(context.Background(), srv.URL); !ok || err != nil {
		t.Fatalf("first refresh: ok=%v err=%v", ok, err)
	}
	// Second refresh inside the interval is suppressed.
	if _, ok, err := l.Refresh(context.Background(), srv.URL); ok || err != nil {
		t.Fatalf("second refresh: ok=%v err=%v", ok, err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}
