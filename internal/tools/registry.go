// Package tools defines the tool registry and the task tool implementations.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/taskpilot/taskpilot/internal/store"
)

// Implementation is the callable behind a tool. It receives validated args,
// the caller identity, and the store handle. On success the returned mapping
// carries a "summary" field; execution faults are returned as errors.
type Implementation func(ctx context.Context, args map[string]any, identity string, st *store.SQLiteStore) (map[string]any, error)

// Descriptor is an immutable registry entry for one tool.
type Descriptor struct {
	Name                 string
	Description          string
	RawSchema            json.RawMessage
	RequiresConfirmation bool
	Examples             []map[string]any
	Impl                 Implementation

	schema *gojsonschema.Schema
}

// ValidateArgs checks args against the tool's input schema and returns a
// joined description of all violations.
func (d *Descriptor) ValidateArgs(args map[string]any) error {
	if d.schema == nil {
		return nil
	}
	result, err := d.schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	return fmt.Errorf("%s", strings.Join(details, "; "))
}

// Registry stores tool descriptors keyed by name. Populated once at startup
// and read-only afterwards.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]*Descriptor)}
}

// Register adds a descriptor, compiling its input schema.
func (r *Registry) Register(d *Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if d.Impl == nil {
		return fmt.Errorf("implementation is required for %s", d.Name)
	}
	if len(d.RawSchema) > 0 {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(d.RawSchema))
		if err != nil {
			return fmt.Errorf("invalid schema for %s: %w", d.Name, err)
		}
		d.schema = schema
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[d.Name]; exists {
		return fmt.Errorf("tool already registered: %s", d.Name)
	}
	r.descriptors[d.Name] = d
	return nil
}

// Lookup returns the descriptor for a tool name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	return d, ok
}

// All returns every descriptor sorted by name.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every registered tool name sorted.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names
}
