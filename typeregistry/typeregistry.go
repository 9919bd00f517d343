// Package typeregistry holds the process-wide, immutable table mapping
// a struct's identity to its descriptor and (for dynamically
// polymorphic types) a factory that builds a fresh concrete instance
// from its leading type-tag Uuid (spec.md §4.3, §9 "Global static
// tables: process-wide immutable configuration constructed at
// startup; no runtime mutation after init").
package typeregistry

import (
	"fmt"
	"sync"

	"github.com/andreygs/csp/ifacedesc"
	"github.com/andreygs/csp/uuid"
)

// Factory constructs a fresh, zero-valued instance of a dynamically
// polymorphic type given its descriptor.
type Factory func() interface{}

type entry struct {
	descriptor *ifacedesc.StructDescriptor
	factory    Factory
}

var (
	mu       sync.RWMutex
	entries  = map[uuid.Uuid]entry{}
)

// Register adds a type's descriptor (and, for DynamicPolymorphic
// types, its factory) to the registry. Intended to be called from
// package-level var/init blocks, before any concurrent use; Register
// itself is safe to call concurrently but the registry is meant to be
// fully populated before the first message is processed.
func Register(desc *ifacedesc.StructDescriptor, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := entries[desc.ID]; exists {
		panic(fmt.Sprintf("typeregistry: struct id %s already registered", desc.ID))
	}
	entries[desc.ID] = entry{descriptor: desc, factory: factory}
}

// Lookup returns the descriptor registered for id, if any.
func Lookup(id uuid.Uuid) (*ifacedesc.StructDescriptor, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := entries[id]
	if !ok {
		return nil, false
	}
	return e.descriptor, true
}

// New constructs a fresh instance of the dynamically polymorphic type
// registered under id. ok is false if id is unknown or was registered
// without a factory.
func New(id uuid.Uuid) (v interface{}, ok bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, found := entries[id]
	if !found || e.factory == nil {
		return nil, false
	}
	return e.factory(), true
}
