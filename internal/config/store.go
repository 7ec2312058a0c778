package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath is where the daemon keeps its settings record.
const DefaultPath = "/var/lib/signal-gate/settings.json"

// Store persists Settings to a single JSON file. Writes go to a temp file in
// the same directory followed by a rename, so a power cut leaves either the
// old record or the new one, never a partial write.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (st *Store) Path() string {
	return st.path
}

// Load reads the persisted record. A missing file, unparseable content, or a
// version tag other than SchemaVersion replaces the record with the defaults
// and persists them immediately. A readable record is still clamped and
// repaired before use.
func (st *Store) Load() (Settings, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		return st.reset()
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return st.reset()
	}

	if s.Version != SchemaVersion {
		return st.reset()
	}

	return sanitize(s), nil
}

func (st *Store) reset() (Settings, error) {
	s := Defaults()
	if err := st.Save(s); err != nil {
		return s, fmt.Errorf("persist defaults: %w", err)
	}
	return s, nil
}

// Save stamps the current schema version and writes the full record
// atomically.
func (st *Store) Save(s Settings) error {
	s.Version = SchemaVersion

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), st.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}
