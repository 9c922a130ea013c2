package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
)

type doc struct {
	Name string `json:"name"`
}

func TestLoadMissingFile(t *testing.T) {
	var d doc
	found, err := Load(filepath.Join(t.TempDir(), "nope.json"), &d)
	if err != nil || found {
		t.Fatalf("expected not found without error, got %v %v", found, err)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "doc.json")
	if err := Save(path, doc{Name: "x"}, 0o600); err != nil {
		t.Fatalf("save: %v", err)
	}
	var d doc
	found, err := Load(path, &d)
	if err != nil || !found || d.Name != "x" {
		t.Fatalf("expected saved doc, got %+v %v %v", d, found, err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var d doc
	if _, err := Load(path, &d); err == nil {
		t.Fatalf("expected an error for corrupt json")
	}
}

func TestRemoveMissingIsFine(t *testing.T) {
	if err := Remove(filepath.Join(t.TempDir(), "gone.json")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
