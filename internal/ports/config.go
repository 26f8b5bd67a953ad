package ports

import "time"

// ExtensionPair maps one compiled-artifact extension to its source extension.
// Both sides carry a leading dot and are compared case-insensitively.
type ExtensionPair struct {
	Compiled string
	Source   string
}

// EngineConfig describes how to reach the external BR engine.
type EngineConfig struct {
	Executable   string        // engine binary (required to search or decompile)
	WorkDir      string        // fixed working directory for engine invocations
	Helper       string        // front-end helper that must be running; empty = none
	HelperArgs   []string      // extra arguments for the helper
	SettleDelay  time.Duration // wait after launching the helper (heuristic, not a guarantee)
	Attempts     int           // engine attempts per invocation (>= 1)
	CleanupDelay time.Duration // trailing delay before temp artifacts are removed
}

// Config is one snapshot of the user configuration.
type Config struct {
	Engine         EngineConfig
	Extensions     []ExtensionPair // ordered; first entry wins on ambiguous reverse lookup
	DecompileStyle string          // optional CONFIG STYLE argument for decompiles
	Editor         string          // editor command template, e.g. "code -g {path}:{line}"
	Exclude        []string        // doublestar globs, relative to each search root
}

// ConfigSource yields the current configuration. Implementations re-read their
// backing store on every call so edits made between operations are picked up.
type ConfigSource interface {
	Load() (*Config, error)
}
