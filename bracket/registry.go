/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bracket

import (
	"fmt"
)

// Registry is an ordered, index addressed list of entrants. The payload type
// is opaque to the engine; matches refer to entrants by index only.
type Registry[T any] struct {
	items []T
}

// NewRegistry returns a Registry holding a copy of items in the given order.
func NewRegistry[T any](items []T) *Registry[T] {
	r := &Registry[T]{items: make([]T, len(items))}
	copy(r.items, items)

	return r
}

func (r *Registry[T]) Get(index int) (T, error) {
	if index < 0 || index >= len(r.items) {
		var zero T
		return zero, fmt.Errorf("bracket: entrant %d of %d: %w", index,
			len(r.items), ErrEntrantNotFound)
	}

	return r.items[index], nil
}

func (r *Registry[T]) Len() int {
	return len(r.items)
}

// Items returns a copy of the entrants in registry order.
func (r *Registry[T]) Items() []T {
	ret := make([]T, len(r.items))
	copy(ret, r.items)

	return ret
}

func (r *Registry[T]) clone() *Registry[T] {
	return NewRegistry(r.items)
}
