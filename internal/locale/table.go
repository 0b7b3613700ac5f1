package locale

// Table is an immutable set of strings keyed by locale. Lookups for a
// locale without an entry fall back to the Default locale, then to the
// first entry registered.
type Table[T any] struct {
	entries map[Locale]T
	first   Locale
}

// NewTable copies entries into a Table. At least one entry is required
// for Lookup to return a non-zero value.
func NewTable[T any](entries map[Locale]T) Table[T] {
	t := Table[T]{entries: make(map[Locale]T, len(entries))}
	for _, l := range Supported {
		if v, ok := entries[l]; ok {
			t.entries[l] = v
			if t.first == "" {
				t.first = l
			}
		}
	}
	for l, v := range entries {
		if _, ok := t.entries[l]; !ok {
			t.entries[l] = v
			if t.first == "" {
				t.first = l
			}
		}
	}
	return t
}

// Lookup returns the entry for l with the fallback chain described on Table.
func (t Table[T]) Lookup(l Locale) T {
	if v, ok := t.entries[l]; ok {
		return v
	}
	if v, ok := t.entries[Default]; ok {
		return v
	}
	return t.entries[t.first]
}

// Has reports whether l has its own entry.
func (t Table[T]) Has(l Locale) bool {
	_, ok := t.entries[l]
	return ok
}
