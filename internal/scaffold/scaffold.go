// Package scaffold handles candidate program storage and the files injected
// into each sandbox: the candidate source, the model-call shim, and the driver
// that invokes the fixed process_input entry point.
package scaffold

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// SourceFile is the candidate program file name inside a scaffold dir.
	SourceFile = "scaffold.py"
	// EntryPoint is the symbol every candidate program must export.
	EntryPoint = "process_input"
)

type Scaffold struct {
	ID   string
	Dir  string
	Code string
	Meta Metadata
}

type Metadata struct {
	CreatedAt time.Time `json:"created_at"`
	ParentID  string    `json:"parent_id,omitempty"`
	Domain    string    `json:"domain,omitempty"`
}

// Load reads a scaffold directory. The directory name is the scaffold ID.
func Load(dir string) (*Scaffold, error) {
	code, err := os.ReadFile(filepath.Join(dir, SourceFile))
	if err != nil {
		return nil, fmt.Errorf("reading scaffold source: %w", err)
	}
	s := &Scaffold{
		ID:   filepath.Base(dir),
		Dir:  dir,
		Code: string(code),
	}
	if data, err := os.ReadFile(filepath.Join(dir, "metadata.json")); err == nil {
		if err := json.Unmarshal(data, &s.Meta); err != nil {
			return nil, fmt.Errorf("parsing scaffold metadata: %w", err)
		}
	}
	return s, nil
}

// Save writes a scaffold's source and metadata to dir.
func Save(dir string, s *Scaffold) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating scaffold dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, SourceFile), []byte(s.Code), 0o644); err != nil {
		return fmt.Errorf("writing scaffold source: %w", err)
	}
	meta := s.Meta
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling scaffold metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "metadata.json"), data, 0o644)
}

// List returns the scaffold IDs stored under baseDir.
func List(baseDir string) ([]string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading scaffolds dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// Materialize lays out a single-use sandbox workspace: candidate source, the
// llm_executor shim, the driver script, and the input payload. The workspace
// is mounted at /workspace inside the container and discarded after the run.
func Materialize(workDir string, s *Scaffold, input string) error {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("creating workspace: %w", err)
	}
	files := map[string]string{
		SourceFile:        s.Code,
		"llm_executor.py": shimSource,
		"run_scaffold.py": driverSource,
		"input.txt":       input,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(workDir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
