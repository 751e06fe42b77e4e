// Package idgen implements ports.IDGenerator with UUIDv4 strings.
package idgen

import "github.com/google/uuid"

// Generator is the default IDGenerator adapter.
type Generator struct{}

// New returns a Generator.
func New() Generator { return Generator{} }

// NewID returns a random UUIDv4 string.
func (Generator) NewID() string { return uuid.NewString() }
