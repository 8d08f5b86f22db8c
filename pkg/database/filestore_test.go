package database

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestFile(t *testing.T) (*JSONFile[record], afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	store, err := InitFileStore(fsys, "/data")
	if err != nil {
		t.Fatalf("InitFileStore: %v", err)
	}
	return NewJSONFile[record](store, "records.json"), fsys
}

func TestJSONFileMissingReadsEmpty(t *testing.T) {
	file, _ := newTestFile(t)

	items, err := file.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("len(items) = %d, want 0", len(items))
	}
}

func TestJSONFileUpdateRoundTrip(t *testing.T) {
	file, fsys := newTestFile(t)

	err := file.Update(func(items []record) ([]record, error) {
		return append(items, record{ID: "a", Name: "Action"}, record{ID: "b", Name: "Drama"}), nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	items, err := file.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(items) != 2 || items[1].Name != "Drama" {
		t.Fatalf("items = %+v, want two records ending with Drama", items)
	}

	if exists, _ := afero.Exists(fsys, "/data/records.json.tmp"); exists {
		t.Fatalf("temporary file left behind")
	}
}

func TestJSONFileUpdateErrorKeepsFile(t *testing.T) {
	file, _ := newTestFile(t)

	if err := file.Update(func(items []record) ([]record, error) {
		return append(items, record{ID: "a", Name: "Action"}), nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	boom := errors.New("boom")
	err := file.Update(func(items []record) ([]record, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want boom", err)
	}

	items, _ := file.Read()
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
}

func TestJSONFileCorrupt(t *testing.T) {
	file, fsys := newTestFile(t)
	if err := afero.WriteFile(fsys, "/data/records.json", []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := file.Read(); err == nil {
		t.Fatalf("Read() expected decode error")
	}
}
