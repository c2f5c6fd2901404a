package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Registry holds validated descriptors keyed by id, loaded once at boot
// and read-only thereafter.
type Registry struct {
	descriptors map[string]*Descriptor
}

// New returns an empty registry (useful for tests / programmatic setup).
func New() *Registry {
	return &Registry{descriptors: make(map[string]*Descriptor)}
}

// Add validates and inserts a descriptor, rejecting duplicate ids.
func (r *Registry) Add(d *Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := r.descriptors[d.ID]; exists {
		return &ValidationError{Subject: d.ID, Reason: "duplicate descriptor id"}
	}
	r.descriptors[d.ID] = d
	return nil
}

// Get looks up a descriptor by id.
func (r *Registry) Get(id string) (*Descriptor, bool) {
	d, ok := r.descriptors[id]
	return d, ok
}

// IDs returns every loaded descriptor id, for telemetry/diagnostics.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	return ids
}

// Load reads every *.yaml/*.yml file in dir as a descriptor. A malformed
// file makes Load return an error; descriptors are read once and the
// process has no other source of truth for them.
func Load(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor directory %s: %w", dir, err)
	}

	r := New()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading descriptor file %s: %w", name, err)
		}
		d, err := ParseDescriptor(data)
		if err != nil {
			return nil, fmt.Errorf("descriptor file %s: %w", name, err)
		}
		if err := r.Add(d); err != nil {
			return nil, fmt.Errorf("descriptor file %s: %w", name, err)
		}
	}
	return r, nil
}
