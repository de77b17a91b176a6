package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/hitdiff/packages/textdiff"
)

func TestManager_Compare_NewSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	profiles := filepath.Join(tmpDir, "hitreq.yaml")

	manager := NewManager(false)

	result, err := manager.Compare(profiles, "todo", "{\n  \"id\": 1\n}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsNew {
		t.Error("expected IsNew to be true")
	}
	if result.Changed() {
		t.Error("a new snapshot has no changes")
	}

	snapshotPath := filepath.Join(tmpDir, SnapshotDir, "hitreq.snap.json")
	if result.Path != snapshotPath {
		t.Errorf("expected path %s, got %s", snapshotPath, result.Path)
	}
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		t.Error("expected snapshot file to be created")
	}
}

func TestManager_Compare_Match(t *testing.T) {
	profiles := filepath.Join(t.TempDir(), "hitreq.yaml")
	text := "{\n  \"id\": 1\n}"

	if _, err := NewManager(false).Compare(profiles, "todo", text); err != nil {
		t.Fatal(err)
	}

	// A fresh manager reads the snapshot back from disk
	result, err := NewManager(false).Compare(profiles, "todo", text)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsNew || result.Changed() {
		t.Errorf("expected unchanged existing snapshot, got %+v", result)
	}
}

func TestManager_Compare_Mismatch(t *testing.T) {
	profiles := filepath.Join(t.TempDir(), "hitreq.yaml")

	if _, err := NewManager(false).Compare(profiles, "todo", "a\nb\nc"); err != nil {
		t.Fatal(err)
	}

	result, err := NewManager(false).Compare(profiles, "todo", "a\nB\nc")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Changed() {
		t.Fatal("expected a change")
	}
	if result.WasUpdated {
		t.Error("snapshot must not be updated outside update mode")
	}

	want := " a\n-b\n+B\n c"
	if got := textdiff.Render(result.Lines); got != want {
		t.Errorf("expected diff %q, got %q", want, got)
	}

	// The stored snapshot is unchanged
	result, err = NewManager(false).Compare(profiles, "todo", "a\nb\nc")
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed() {
		t.Error("expected the original snapshot to be kept")
	}
}

func TestManager_Compare_UpdateMode(t *testing.T) {
	profiles := filepath.Join(t.TempDir(), "hitreq.yaml")

	if _, err := NewManager(false).Compare(profiles, "todo", "old"); err != nil {
		t.Fatal(err)
	}

	result, err := NewManager(true).Compare(profiles, "todo", "new")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Changed() || !result.WasUpdated {
		t.Errorf("expected an updated change, got %+v", result)
	}

	result, err = NewManager(false).Compare(profiles, "todo", "new")
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed() {
		t.Error("expected the updated snapshot to match")
	}
}

func TestManager_Compare_SeparateNames(t *testing.T) {
	profiles := filepath.Join(t.TempDir(), "hitreq.yaml")
	manager := NewManager(false)

	if _, err := manager.Compare(profiles, "a", "one"); err != nil {
		t.Fatal(err)
	}
	result, err := manager.Compare(profiles, "b", "two")
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsNew {
		t.Error("expected a separate snapshot per name")
	}
}

func TestManager_Compare_CorruptFile(t *testing.T) {
	tmpDir := t.TempDir()
	profiles := filepath.Join(tmpDir, "hitreq.yaml")

	if err := os.MkdirAll(filepath.Join(tmpDir, SnapshotDir), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(profiles), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewManager(false).Compare(profiles, "todo", "x"); err == nil {
		t.Error("expected an error for a corrupt snapshot file")
	}
}
