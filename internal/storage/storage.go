package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/tvfixtures/internal/event"
)

// Storage handles persistence of the snapshot file
type Storage struct {
	dataDir      string
	snapshotFile string
}

// New creates a new Storage instance
func New(dataDir, snapshotFile string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}
	if snapshotFile == "" {
		snapshotFile = "merged.json"
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir:      dataDir,
		snapshotFile: snapshotFile,
	}, nil
}

// Dir returns the resolved data directory.
func (s *Storage) Dir() string { return s.dataDir }

// Path returns the location of name inside the data directory.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dataDir, name)
}

// SnapshotPath returns the path to the snapshot file
func (s *Storage) SnapshotPath() string {
	return s.Path(s.snapshotFile)
}

// LoadSnapshot loads the snapshot from disk. A missing file yields an empty
// snapshot.
func (s *Storage) LoadSnapshot() (*event.Snapshot, error) {
	data, err := os.ReadFile(s.SnapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return event.NewSnapshot("", "", "", 0, 0, nil), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Events == nil {
		snapshot.Events = []*event.MergedEvent{}
	}
	return &snapshot, nil
}

// Encode renders a snapshot the way it is stored: indented, with non-ASCII
// team and channel names left unescaped.
func Encode(snapshot *event.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveSnapshot replaces the snapshot file and returns the bytes written.
// The file is written to a temporary name and renamed, so readers never
// observe a partial snapshot.
func (s *Storage) SaveSnapshot(snapshot *event.Snapshot) ([]byte, error) {
	data, err := Encode(snapshot)
	if err != nil {
		return nil, err
	}
	if err := s.writeAtomic(s.SnapshotPath(), data); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}
	return data, nil
}

// SaveDebug stores a copy of a fetched document. It satisfies fetcher.DebugSink.
func (s *Storage) SaveDebug(name string, data []byte) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("invalid debug file name %q", name)
	}
	return os.WriteFile(s.Path(name), data, 0644)
}

// EnsureSeed creates the snapshot (as seed) and an empty log file when they
// do not exist yet. Existing files are left untouched.
func (s *Storage) EnsureSeed(seed *event.Snapshot, logFile string) error {
	if _, err := os.Stat(s.SnapshotPath()); errors.Is(err, os.ErrNotExist) {
		if _, err := s.SaveSnapshot(seed); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("checking snapshot: %w", err)
	}

	if logFile == "" {
		return nil
	}
	f, err := os.OpenFile(s.Path(logFile), os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	return f.Close()
}

func (s *Storage) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() // nolint:errcheck
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close() // nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
