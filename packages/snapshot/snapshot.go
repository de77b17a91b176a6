// Package snapshot stores the canonical text of responses on disk so that a
// later response to the same request can be diffed against it.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/hitdiff/packages/textdiff"
)

const (
	// SnapshotDir is the directory name for storing snapshots
	SnapshotDir = "__snapshots__"
	// SnapshotExt is the file extension for snapshot files
	SnapshotExt = ".snap.json"
)

// Manager handles snapshot storage and comparison.
type Manager struct {
	updateMode    bool
	snapshotsRead map[string]map[string]string // file -> {name -> text}
}

// NewManager creates a new snapshot manager. In update mode a mismatching
// snapshot is replaced by the new text.
func NewManager(updateMode bool) *Manager {
	return &Manager{
		updateMode:    updateMode,
		snapshotsRead: make(map[string]map[string]string),
	}
}

// Result is the outcome of comparing a text against its snapshot.
type Result struct {
	Name       string
	Path       string
	IsNew      bool
	WasUpdated bool
	Lines      []textdiff.Line
	Stats      textdiff.Stats
}

// Changed reports whether the text differed from the stored snapshot.
func (r *Result) Changed() bool {
	return r.Stats.Changed()
}

// Compare diffs text against the snapshot stored under name for
// profilesFile. A missing snapshot is recorded and reported as new.
func (m *Manager) Compare(profilesFile, name, text string) (*Result, error) {
	path := Path(profilesFile)
	result := &Result{Name: name, Path: path}

	snapshots, err := m.loadSnapshots(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	expected, exists := snapshots[name]
	if !exists {
		snapshots[name] = text
		if err := m.saveSnapshots(path, snapshots); err != nil {
			return nil, fmt.Errorf("failed to save snapshot: %w", err)
		}
		result.IsNew = true
		return result, nil
	}

	result.Lines = textdiff.Lines(expected, text)
	result.Stats = textdiff.Summarize(result.Lines)

	if result.Changed() && m.updateMode {
		snapshots[name] = text
		if err := m.saveSnapshots(path, snapshots); err != nil {
			return nil, fmt.Errorf("failed to update snapshot: %w", err)
		}
		result.WasUpdated = true
	}
	return result, nil
}

// Path returns the snapshot file used for a profiles file.
func Path(profilesFile string) string {
	dir := filepath.Dir(profilesFile)
	base := filepath.Base(profilesFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(dir, SnapshotDir, name+SnapshotExt)
}

func (m *Manager) loadSnapshots(path string) (map[string]string, error) {
	if cached, ok := m.snapshotsRead[path]; ok {
		return cached, nil
	}

	snapshots := make(map[string]string)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			m.snapshotsRead[path] = snapshots
			return snapshots, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.snapshotsRead[path] = snapshots
	return snapshots, nil
}

func (m *Manager) saveSnapshots(path string, snapshots map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return err
	}

	m.snapshotsRead[path] = snapshots
	return os.WriteFile(path, data, 0644)
}
