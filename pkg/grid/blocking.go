package grid

// Blocker decides whether a cell stops movement or sight.
type Blocker[T Cell] func(value T, index int) bool

// Mask returns a Blocker reporting cells whose value shares a bit with m.
func Mask[T Cell](m T) Blocker[T] {
	return func(value T, _ int) bool { return value&m != 0 }
}

// Predicate adapts a value-only test into a Blocker.
func Predicate[T Cell](fn func(T) bool) Blocker[T] {
	return func(value T, _ int) bool { return fn(value) }
}

// Blocked applies b to the cell at i. A nil Blocker blocks nothing.
func (g *Grid[T]) Blocked(b Blocker[T], i int) bool {
	if b == nil {
		return false
	}
	return b(g.data[i], i)
}
