package salesreport

// Index is a first-wins hash lookup built once per run from a reference sheet.
type Index[K comparable, V any] struct {
	entries map[K]V
}

func newIndex[K comparable, V any](capacity int) *Index[K, V] {
	return &Index[K, V]{entries: make(map[K]V, capacity)}
}

// add stores v under k unless k is already present. It reports whether v was kept.
func (ix *Index[K, V]) add(k K, v V) bool {
	if _, ok := ix.entries[k]; ok {
		return false
	}
	ix.entries[k] = v
	return true
}

// Lookup returns the value for k and whether it exists. A nil index is empty.
func (ix *Index[K, V]) Lookup(k K) (V, bool) {
	var zero V
	if ix == nil {
		return zero, false
	}
	v, ok := ix.entries[k]
	return v, ok
}

// Len returns the number of distinct keys.
func (ix *Index[K, V]) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}
