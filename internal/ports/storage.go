package ports

// ResultStore persists the current result set so a later invocation (for example
// "open match 3") can resolve it. There is no history: Replace overwrites the
// previous set and Clear empties it.
//
// Crash safety: Replace must be transactional. A crash mid-write must leave
// either the old set or the new one, never a mix.
type ResultStore interface {
	// Replace stores rs as the only result set.
	Replace(rs *ResultSet) error

	// Current returns the stored result set.
	// Returns nil, nil if nothing is stored (fresh workspace or cleared).
	Current() (*ResultSet, error)

	// Clear drops the stored result set. Idempotent.
	Clear() error
}
