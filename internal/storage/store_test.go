package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	if s.Value < 0 {
		return os.ErrInvalid
	}
	return nil
}

func writeAsset(t *testing.T, dir, file string, asset any) {
	t.Helper()
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), data, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	writeAsset(t, dir, "item-1.json", Asset[*mockStoreSpec]{Version: 1, ID: "item-1", Spec: &mockStoreSpec{Name: "First", Value: 1}})
	writeAsset(t, sub, "item-2.json", Asset[*mockStoreSpec]{Version: 1, ID: "item-2", Spec: &mockStoreSpec{Name: "Second", Value: 2}})
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("not an asset"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	store, err := NewFileStore[*mockStoreSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.GetAll()), 2)

	item, ok := store.Get("item-2")
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "name", item.Name, "Second")

	_, ok = store.Get("missing")
	testutil.AssertEqual(t, "missing found", ok, false)
}

func TestNewFileStore_Errors(t *testing.T) {
	tests := map[string]struct {
		setup  func(t *testing.T, dir string)
		expErr string
	}{
		"invalid json": {
			setup: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			expErr: "unmarshalling asset",
		},
		"invalid asset": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "a.json", Asset[*mockStoreSpec]{ID: "a", Spec: &mockStoreSpec{}})
			},
			expErr: "version must be set",
		},
		"invalid spec": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "a.json", Asset[*mockStoreSpec]{Version: 1, ID: "a", Spec: &mockStoreSpec{Value: -1}})
			},
			expErr: "validating a.json",
		},
		"duplicate key": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "a.json", Asset[*mockStoreSpec]{Version: 1, ID: "same", Spec: &mockStoreSpec{}})
				writeAsset(t, dir, "b.json", Asset[*mockStoreSpec]{Version: 1, ID: "same", Spec: &mockStoreSpec{}})
			},
			expErr: "duplicate key detected: same",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			_, err := NewFileStore[*mockStoreSpec](dir)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*mockStoreSpec]("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestFileStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore[*mockStoreSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save("new-item", &mockStoreSpec{Name: "New", Value: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = os.Stat(filepath.Join(dir, "new-item.json.tmp"))
	testutil.AssertEqual(t, "temp file removed", os.IsNotExist(err), true)

	reloaded, err := NewFileStore[*mockStoreSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error reloading: %v", err)
	}
	item, ok := reloaded.Get("new-item")
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "value", item.Value, 7)
}

func TestFileStore_Save_Rejects(t *testing.T) {
	store, err := NewFileStore[*mockStoreSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = store.Save("../escape", &mockStoreSpec{})
	testutil.AssertErrorContains(t, err, "id must be alphanumeric")

	err = store.Save("neg", &mockStoreSpec{Value: -1})
	testutil.AssertErrorContains(t, err, "validating neg")

	testutil.AssertEqual(t, "record count", len(store.GetAll()), 0)
}

func TestMemoryStore(t *testing.T) {
	seed := map[string]*mockStoreSpec{"b": {Name: "B"}, "a": {Name: "A"}}
	store := NewMemoryStore(seed)

	delete(seed, "a")
	testutil.AssertEqual(t, "copied on create", len(store.GetAll()), 2)

	if err := store.Save("c", &mockStoreSpec{Name: "C"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := store.Save("bad", &mockStoreSpec{Value: -1})
	testutil.AssertErrorContains(t, err, "validating bad")

	testutil.AssertEqual(t, "sorted ids", strings.Join(SortedIDs[*mockStoreSpec](store), ","), "a,b,c")
}
