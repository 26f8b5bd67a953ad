// Package extmap maps compiled BR program extensions to their editable source
// extensions and back.
//
// A Table is an immutable snapshot of the configured mapping. A Resolver re-reads
// the configuration each time a snapshot is requested so edits made between
// operations take effect without a restart.
package extmap

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/corey/brkit/internal/ports"
)

// DefaultPairs is used when the configuration does not define a mapping.
var DefaultPairs = []ports.ExtensionPair{
	{Compiled: ".br", Source: ".brs"},
	{Compiled: ".wb", Source: ".wbs"},
}

// fallbackCompiled holds the conventions applied by reverse lookup when no
// explicit entry names the source extension.
var fallbackCompiled = map[string]string{
	".brs": ".br",
	".wbs": ".wb",
}

// Normalize lowercases ext and ensures a leading dot. Empty stays empty.
func Normalize(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// Table is an ordered compiled→source mapping.
type Table struct {
	pairs []ports.ExtensionPair
}

// NewTable validates pairs and builds a table. An entry mapping an extension to
// itself, an entry with an empty side, a compiled extension listed twice, or a
// source extension that is also a compiled key yields ports.ErrInvalidMapping.
func NewTable(pairs []ports.ExtensionPair) (*Table, error) {
	t := &Table{pairs: make([]ports.ExtensionPair, 0, len(pairs))}
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		c, s := Normalize(p.Compiled), Normalize(p.Source)
		if c == "" || s == "" {
			return nil, fmt.Errorf("%w: empty extension in %q -> %q", ports.ErrInvalidMapping, p.Compiled, p.Source)
		}
		if c == s {
			return nil, fmt.Errorf("%w: %s maps to itself", ports.ErrInvalidMapping, c)
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: %s is mapped more than once", ports.ErrInvalidMapping, c)
		}
		seen[c] = true
		t.pairs = append(t.pairs, ports.ExtensionPair{Compiled: c, Source: s})
	}
	// A source twin must never itself be a compiled artifact.
	for _, p := range t.pairs {
		if seen[p.Source] {
			return nil, fmt.Errorf("%w: %s is both a source and a compiled extension", ports.ErrInvalidMapping, p.Source)
		}
	}
	return t, nil
}

// Pairs returns a copy of the normalized entries in configured order.
func (t *Table) Pairs() []ports.ExtensionPair {
	out := make([]ports.ExtensionPair, len(t.pairs))
	copy(out, t.pairs)
	return out
}

// SourceExtensionFor returns the source extension for a compiled extension.
func (t *Table) SourceExtensionFor(compiledExt string) (string, bool) {
	c := Normalize(compiledExt)
	for _, p := range t.pairs {
		if p.Compiled == c {
			return p.Source, true
		}
	}
	return "", false
}

// CompiledExtensionFor is the reverse lookup. When several compiled extensions
// share the source extension the first entry wins. Without an explicit entry,
// .brs and .wbs fall back to .br and .wb.
func (t *Table) CompiledExtensionFor(sourceExt string) (string, bool) {
	s := Normalize(sourceExt)
	for _, p := range t.pairs {
		if p.Source == s {
			return p.Compiled, true
		}
	}
	if c, ok := fallbackCompiled[s]; ok {
		return c, true
	}
	return "", false
}

// IsCompiled reports whether ext is a mapping key.
func (t *Table) IsCompiled(ext string) bool {
	_, ok := t.SourceExtensionFor(ext)
	return ok
}

// IsSource reports whether ext is a mapping value.
func (t *Table) IsSource(ext string) bool {
	s := Normalize(ext)
	for _, p := range t.pairs {
		if p.Source == s {
			return true
		}
	}
	return false
}

// Classify returns the kind of path by its extension.
func (t *Table) Classify(path string) ports.FileKind {
	ext := filepath.Ext(path)
	switch {
	case t.IsCompiled(ext):
		return ports.KindCompiled
	case t.IsSource(ext):
		return ports.KindSource
	default:
		return ports.KindUnknown
	}
}

// SourcePathFor swaps the extension of a compiled path for its source
// extension, keeping directory and base name.
func (t *Table) SourcePathFor(compiledPath string) (string, bool) {
	ext := filepath.Ext(compiledPath)
	src, ok := t.SourceExtensionFor(ext)
	if !ok {
		return "", false
	}
	return strings.TrimSuffix(compiledPath, ext) + src, true
}

// CompiledPathFor is the inverse of SourcePathFor.
func (t *Table) CompiledPathFor(sourcePath string) (string, bool) {
	ext := filepath.Ext(sourcePath)
	c, ok := t.CompiledExtensionFor(ext)
	if !ok {
		return "", false
	}
	return strings.TrimSuffix(sourcePath, ext) + c, true
}

// Resolver produces tables from the live configuration.
type Resolver struct {
	src ports.ConfigSource
}

// NewResolver creates a resolver reading from src.
func NewResolver(src ports.ConfigSource) *Resolver {
	return &Resolver{src: src}
}

// Snapshot re-reads the configuration and returns its mapping. An empty
// configured mapping yields DefaultPairs.
func (r *Resolver) Snapshot() (*Table, error) {
	cfg, err := r.src.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return TableFor(cfg)
}

// TableFor builds the table of one configuration snapshot.
func TableFor(cfg *ports.Config) (*Table, error) {
	if cfg == nil || len(cfg.Extensions) == 0 {
		return NewTable(DefaultPairs)
	}
	return NewTable(cfg.Extensions)
}
