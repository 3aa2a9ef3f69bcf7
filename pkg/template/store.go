package template

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// Store holds scene templates and patterns loaded from a directory. Load
// failures leave the affected entry absent rather than aborting startup.
// The store is read-only after construction and safe for concurrent use.
//
// Inheritance is resolved at lookup time, not load time, so an edit to a
// base template (followed by a reload) propagates to children on the next
// lookup.
type Store struct {
	templates map[string]*SceneTemplate
	patterns  map[string]*Pattern
	logger    *slog.Logger
}

// NewStore scans dir for *.json templates and dir/patterns/*.json patterns.
func NewStore(dir string, logger *slog.Logger) *Store {
	s := &Store{
		templates: make(map[string]*SceneTemplate),
		patterns:  make(map[string]*Pattern),
		logger:    logger,
	}
	s.loadTemplates(dir)
	s.loadPatterns(filepath.Join(dir, "patterns"))
	return s
}

func (s *Store) loadTemplates(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Error("Failed to read template directory", "dir", dir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("Failed to read template file", "path", path, "error", err)
			continue
		}
		var tmpl SceneTemplate
		if err := json.Unmarshal(data, &tmpl); err != nil {
			s.logger.Warn("Failed to unmarshal template file", "path", path, "error", err)
			continue
		}
		if tmpl.Name == "" {
			s.logger.Warn("Template file missing name, skipping", "path", path)
			continue
		}
		s.templates[tmpl.Name] = &tmpl
	}
	s.logger.Info("Loaded scene templates", "count", len(s.templates))
}

func (s *Store) loadPatterns(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("Failed to read pattern directory", "dir", dir, "error", err)
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("Failed to read pattern file", "path", path, "error", err)
			continue
		}
		var p Pattern
		if err := json.Unmarshal(data, &p); err != nil {
			s.logger.Warn("Failed to unmarshal pattern file", "path", path, "error", err)
			continue
		}
		// Pattern name comes from the filename, matching template authoring.
		name := strings.TrimSuffix(entry.Name(), ".json")
		s.patterns[name] = &p
	}
	s.logger.Info("Loaded patterns", "count", len(s.patterns))
}

// Get resolves the named template, walking its inheritance chain. A name
// missing at any point in the chain yields (nil, nil); a self- or mutually-
// referential chain is a StructuralError.
func (s *Store) Get(name string) (*SceneTemplate, error) {
	return s.resolve(name, map[string]bool{})
}

func (s *Store) resolve(name string, visited map[string]bool) (*SceneTemplate, error) {
	if visited[name] {
		return nil, scene.Structuralf("circular inheritance at template %q", name)
	}
	visited[name] = true

	tmpl, ok := s.templates[name]
	if !ok {
		return nil, nil
	}
	if tmpl.BaseTemplate == "" {
		return tmpl, nil
	}

	base, err := s.resolve(tmpl.BaseTemplate, visited)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, nil
	}
	return merge(base, tmpl), nil
}

// Names lists the loaded template names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PatternNames lists the loaded pattern names, sorted.
func (s *Store) PatternNames() []string {
	names := make([]string, 0, len(s.patterns))
	for name := range s.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decodeObject binds a substituted object spec to a concrete definition.
func decodeObject(spec map[string]any) (*scene.ObjectDefinition, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal object spec: %w", err)
	}
	var obj scene.ObjectDefinition
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode object spec: %w", err)
	}
	return &obj, nil
}
