// Package uuid wraps ID generation behind an interface so battle IDs can be
// pinned in tests.
package uuid

import "github.com/google/uuid"

// Generator produces unique string identifiers
type Generator interface {
	New() string
}

type googleGenerator struct{}

func (g *googleGenerator) New() string {
	return uuid.NewString()
}

// NewGoogleUUIDGenerator returns a Generator backed by google/uuid
func NewGoogleUUIDGenerator() Generator {
	return &googleGenerator{}
}
