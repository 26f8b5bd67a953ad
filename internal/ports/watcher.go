package ports

// Watcher monitors search roots for changed files. The adapter filters out
// tool-private and VCS directories before invoking onChange; callers filter by
// extension. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring every root recursively. onChange is called with
	// the absolute path of each changed file. The callback may be invoked from
	// any goroutine. Returns an error if a root doesn't exist or permissions
	// are insufficient.
	Watch(roots []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
