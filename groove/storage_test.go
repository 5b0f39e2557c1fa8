package groove

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileName(t *testing.T) {
	for _, tt := range []struct{ in, want string }{
		{"My Beat", "My_Beat.json"},
		{"Groove #2!", "Groove_2.json"},
		{"trailing   ", "trailing.json"},
		{"a/b\\c", "abc.json"},
		{"***", ""},
		{"", ""},
	} {
		if got := fileName(tt.in); got != tt.want {
			t.Errorf("wrong file name for %q: want %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	src, _ := Preset("Basic Rock Beat")
	if err := store.Save(src.Renamed("My Beat")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "My_Beat.json")); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	loaded, err := store.Load("My Beat")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := "My Beat", loaded.Name; want != got {
		t.Errorf("wrong name: want %q, got %q", want, got)
	}
	if loaded.BeatsPerBar != 4 || loaded.Bars != 1 || loaded.Subdivision != 2 {
		t.Errorf("wrong grid: %+v", loaded)
	}
	if want, got := len(src.Notes), len(loaded.Notes); want != got {
		t.Errorf("wrong note count: want %v, got %v", want, got)
	}
	// The index is rebuilt on load.
	if got := loaded.NotesAt(0, 1, 0); len(got) != 2 {
		t.Errorf("wrong backbeat notes after load: %v", got)
	}
}

func TestStoreSaveRejectsUnusableName(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save(New("!!!")); err == nil {
		t.Error("expected error for unusable name")
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if got := store.List(); len(got) != 0 {
		t.Fatalf("names in an empty store: %v", got)
	}
	if err := store.Save(New("Beta")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(New("Alpha")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := []string{"Alpha", "Beta"}
	if got := store.List(); !reflect.DeepEqual(want, got) {
		t.Errorf("wrong names: want %v, got %v", want, got)
	}
}

func TestStoreDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := store.Save(New("Doomed")); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("Doomed"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Doomed.json")); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
	if err := store.Delete("Doomed"); err == nil {
		t.Error("expected error for missing groove")
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`{"name": "Sparse", "notes": [{"voice": "kick"}]}`)
	if err := os.WriteFile(filepath.Join(dir, "Sparse.json"), raw, 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := NewStore(dir).Load("Sparse")
	if err != nil {
		t.Fatal(err)
	}
	if g.BeatsPerBar != 4 || g.Bars != 1 || g.Subdivision != 4 {
		t.Errorf("wrong grid defaults: %+v", g)
	}
	got := g.NotesAt(0, 0, 0)
	if len(got) != 1 || got[0].Voice != "kick" {
		t.Errorf("wrong notes: %v", got)
	}
}

func TestLoadMissingGroove(t *testing.T) {
	if _, err := NewStore(t.TempDir()).Load("Nope"); err == nil {
		t.Error("expected error for missing groove")
	}
}
