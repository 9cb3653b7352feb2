// Package pool provides a typed wrapper around sync.Pool.
package pool

import "sync"

// Pool is a generic wrapper around sync.Pool.
type Pool[T any] struct {
	internal sync.Pool
	reset    func(T)
	keep     func(T) bool
}

// New creates a new Pool with the given constructor.
func New[T any](newFn func() T) *Pool[T] {
	p := &Pool[T]{}
	p.internal.New = func() any { return newFn() }
	return p
}

// NewWithReset creates a Pool that calls reset on every item handed back by
// Put, and drops items for which keep returns false. Either func may be nil.
func NewWithReset[T any](newFn func() T, reset func(T), keep func(T) bool) *Pool[T] {
	p := New(newFn)
	p.reset = reset
	p.keep = keep
	return p
}

// Get retrieves an item from the pool.
func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

// Put returns an item to the pool.
func (p *Pool[T]) Put(item T) {
	if p.keep != nil && !p.keep(item) {
		return
	}
	if p.reset != nil {
		p.reset(item)
	}
	p.internal.Put(item)
}
