package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type testRecord struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func (r *testRecord) Validate() error {
	if r.Score < 0 {
		return errors.New("score must not be negative")
	}
	return nil
}

func writeAsset(t *testing.T, path string, a Asset[*testRecord]) {
	t.Helper()
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestAsset_Validate(t *testing.T) {
	tests := map[string]struct {
		asset  Asset[*testRecord]
		expErr string
	}{
		"valid": {
			asset: Asset[*testRecord]{Version: 1, Identifier: "wren_01", Spec: &testRecord{}},
		},
		"missing version": {
			asset:  Asset[*testRecord]{Identifier: "wren", Spec: &testRecord{}},
			expErr: "version must be set",
		},
		"empty id": {
			asset:  Asset[*testRecord]{Version: 1, Spec: &testRecord{}},
			expErr: "id must be non-empty and alphanumeric",
		},
		"path in id": {
			asset:  Asset[*testRecord]{Version: 1, Identifier: "../etc", Spec: &testRecord{}},
			expErr: "id must be non-empty and alphanumeric",
		},
		"spec invalid": {
			asset:  Asset[*testRecord]{Version: 1, Identifier: "wren", Spec: &testRecord{Score: -1}},
			expErr: "score must not be negative",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestNewFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "accounts", "nested")

	store, err := NewFileStore[*testRecord](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "records", len(store.GetAll()), 0)

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected directory: %v", err)
	}
	testutil.AssertEqual(t, "is dir", info.IsDir(), true)
}

func TestNewFileStore_Load(t *testing.T) {
	tests := map[string]struct {
		setup    func(t *testing.T, dir string)
		expCount int
		expErr   string
	}{
		"loads valid assets": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "a.json"), Asset[*testRecord]{Version: 1, Identifier: "a", Spec: &testRecord{Name: "A"}})
				writeAsset(t, filepath.Join(dir, "b.json"), Asset[*testRecord]{Version: 1, Identifier: "b", Spec: &testRecord{Name: "B"}})
			},
			expCount: 2,
		},
		"ignores other files": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "a.json"), Asset[*testRecord]{Version: 1, Identifier: "a", Spec: &testRecord{}})
				_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644)
				_ = os.WriteFile(filepath.Join(dir, "a.json.tmp"), []byte("{"), 0o644)
			},
			expCount: 1,
		},
		"invalid json": {
			setup: func(t *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{nope"), 0o644)
			},
			expErr: "loading bad.json",
		},
		"fails validation": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "x.json"), Asset[*testRecord]{Identifier: "x", Spec: &testRecord{}})
			},
			expErr: "validating x.json",
		},
		"duplicate key": {
			setup: func(t *testing.T, dir string) {
				a := Asset[*testRecord]{Version: 1, Identifier: "dup", Spec: &testRecord{}}
				_ = os.Mkdir(filepath.Join(dir, "sub"), 0o755)
				writeAsset(t, filepath.Join(dir, "one.json"), a)
				writeAsset(t, filepath.Join(dir, "sub", "two.json"), a)
			},
			expErr: "duplicate key detected: dup",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			store, err := NewFileStore[*testRecord](dir)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "count", len(store.GetAll()), tt.expCount)
		})
	}
}

func TestFileStore_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore[*testRecord](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = store.Save("wren", &testRecord{Name: "Wren", Score: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = store.Save("wren", &testRecord{Name: "Wren", Score: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := store.Get("wren")
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "score", got.Score, 4)

	reloaded, err := NewFileStore[*testRecord](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok = reloaded.Get("wren")
	testutil.AssertEqual(t, "found after reload", ok, true)
	testutil.AssertEqual(t, "name after reload", got.Name, "Wren")
	testutil.AssertEqual(t, "score after reload", got.Score, 4)

	_, err = os.Stat(filepath.Join(dir, "wren.json.tmp"))
	testutil.AssertEqual(t, "temp file removed", os.IsNotExist(err), true)
}

func TestFileStore_SaveRejectsInvalid(t *testing.T) {
	store, err := NewFileStore[*testRecord](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = store.Save("bad id", &testRecord{})
	testutil.AssertErrorContains(t, err, "id must be non-empty and alphanumeric")

	err = store.Save("neg", &testRecord{Score: -5})
	testutil.AssertErrorContains(t, err, "score must not be negative")

	_, ok := store.Get("neg")
	testutil.AssertEqual(t, "not cached", ok, false)
}

func TestFileStore_GetAllIsCopy(t *testing.T) {
	store, err := NewFileStore[*testRecord](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save("a", &testRecord{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := store.GetAll()
	delete(all, "a")

	_, ok := store.Get("a")
	testutil.AssertEqual(t, "still present", ok, true)
}
