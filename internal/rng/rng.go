// Package rng provides the single sequential random source used by the
// layout engine. Every draw goes through NextInt so a seed reproduces the
// same layout as long as callers consume it in the same order.
package rng

import (
	"encoding/binary"
	"math/rand"

	"golang.org/x/crypto/blake2b"
)

// Random is the source of randomness consumed by the layout engine
type Random interface {
	// NextInt returns an integer in [0, bound)
	NextInt(bound int) int
}

// Source is a Random backed by a seeded math/rand generator
type Source struct {
	seed int64
	rng  *rand.Rand
}

// New creates a seeded random source
func New(seed int64) *Source {
	return &Source{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the source was created with
func (s *Source) Seed() int64 {
	return s.seed
}

// NextInt returns an integer in [0, bound). A non-positive bound returns 0.
func (s *Source) NextInt(bound int) int {
	if bound <= 0 {
		return 0
	}
	return s.rng.Intn(bound)
}

// Pick returns a random element of items. It panics on an empty slice.
func Pick[T any](r Random, items []T) T {
	return items[r.NextInt(len(items))]
}

// Shuffle reorders items in place and returns the same slice
func Shuffle[T any](r Random, items []T) []T {
	for i := len(items) - 1; i > 0; i-- {
		j := r.NextInt(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// SeedFromString derives a stable numeric seed from a seed phrase, so that
// seeds can be shared as words instead of integers.
func SeedFromString(phrase string) int64 {
	sum := blake2b.Sum256([]byte(phrase))
	return int64(binary.LittleEndian.Uint64(sum[:8]) & 0x7fffffffffffffff)
}

// Derive returns the seed for a numbered attempt of a base seed
func Derive(base int64, attempt int) int64 {
	return base + int64(attempt)*1000
}
