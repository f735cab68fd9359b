// Package uuidutil generates random identifiers for scratch files.
package uuidutil

import (
	"github.com/google/uuid"
)

// NewV4 generates a random UUID v4 string.
// Panics if the random source fails, which only happens on a broken system.
func NewV4() string {
	return uuid.New().String()
}

// ScratchName returns prefix followed by a fresh UUID, for probe and
// staging files that must not collide with anything already on disk.
func ScratchName(prefix string) string {
	return prefix + NewV4()
}
