package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Oloap008/Trello-Clone/internal/model"
)

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Reset replaces the document with freshly seeded data.
func (s *Store) Reset(ctx context.Context) {
	defer s.BeginWrite()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = model.Seed(s.now())
	s.doc.Normalize()
	s.changed(ctx)
	s.log.Info("data reset to defaults")
}

// Export returns the whole document as JSON indented by two spaces.
func (s *Store) Export() (string, error) {
	doc := s.Snapshot()
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return string(b), nil
}

// ExportYAML renders the document as YAML. Keys keep their JSON names and
// are sorted within each mapping.
func (s *Store) ExportYAML() (string, error) {
	raw, err := json.Marshal(s.Snapshot())
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("export yaml: %w", err)
	}
	return string(out), nil
}

// Import replaces the document wholesale with the one encoded in text.
// Malformed input is logged and reported as false; the current document
// is then left as it was.
func (s *Store) Import(ctx context.Context, text string) bool {
	var doc model.Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		s.log.Error("import: malformed document", "err", err)
		return false
	}
	doc.Normalize()

	defer s.BeginWrite()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.changed(ctx)
	return true
}

// StorageInfo reports the size of the serialized document.
func (s *Store) StorageInfo() model.StorageInfo {
	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		s.log.Error("storage info: encode failed", "err", err)
	}
	n := len(b)
	return model.StorageInfo{
		SizeInBytes: n,
		SizeInKB:    fmt.Sprintf("%.2f KB", float64(n)/1024),
		SizeInMB:    fmt.Sprintf("%.2f MB", float64(n)/(1024*1024)),
	}
}
