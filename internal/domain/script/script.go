// Package script builds batch scripts for the BR engine.
//
// A script is plain text, one directive per line:
//
//	PROC NOECHO
//	ON ERROR RETURN
//	CONFIG STYLE indent 2 45          (optional)
//	LOAD ":/work/ar/invoice.br"
//	LIST 'GOTO' >":/tmp/searchResult_<token>_0.txt"
//	LIST 'PRINT' >>":/tmp/searchResult_<token>_0.txt"
//	SYSTEM
//
// Paths are absolute and quoted with a leading colon, which tells the engine
// they are native OS paths.
package script

import (
	"fmt"
	"os"
	"strings"
)

// Builder accumulates directives. The zero value is not usable; call New.
type Builder struct {
	lines []string
}

// New starts a script with echo disabled and errors returning to the script.
func New() *Builder {
	return &Builder{lines: []string{"PROC NOECHO", "ON ERROR RETURN"}}
}

// Quote renders a native path the way the engine expects: ":<path>" in double quotes.
func Quote(path string) string {
	return `":` + strings.ReplaceAll(path, `"`, `""`) + `"`
}

// quoteTerm renders a search term as a single-quoted string literal.
func quoteTerm(term string) string {
	return "'" + strings.ReplaceAll(term, "'", "''") + "'"
}

func redirect(appendTo bool) string {
	if appendTo {
		return ">>"
	}
	return ">"
}

// Style adds a CONFIG STYLE directive. An empty style is skipped.
func (b *Builder) Style(style string) *Builder {
	if s := strings.TrimSpace(style); s != "" {
		b.lines = append(b.lines, "CONFIG STYLE "+s)
	}
	return b
}

// Load loads a compiled program.
func (b *Builder) Load(path string) *Builder {
	b.lines = append(b.lines, "LOAD "+Quote(path))
	return b
}

// List lists the loaded program into out. With appendTo the output is appended,
// otherwise out is created or truncated.
func (b *Builder) List(out string, appendTo bool) *Builder {
	b.lines = append(b.lines, "LIST "+redirect(appendTo)+Quote(out))
	return b
}

// ListTerm lists lines of the loaded program containing term into out.
func (b *Builder) ListTerm(term, out string, appendTo bool) *Builder {
	b.lines = append(b.lines, fmt.Sprintf("LIST %s %s%s", quoteTerm(term), redirect(appendTo), Quote(out)))
	return b
}

// ListSourceTerm lists lines of a source file containing term without loading
// it, by redirecting the engine's input from the file.
func (b *Builder) ListSourceTerm(source, term, out string, appendTo bool) *Builder {
	b.lines = append(b.lines, fmt.Sprintf("LIST <%s %s %s%s", Quote(source), quoteTerm(term), redirect(appendTo), Quote(out)))
	return b
}

// String returns the script terminated with SYSTEM.
func (b *Builder) String() string {
	return strings.Join(b.lines, "\n") + "\nSYSTEM\n"
}

// WriteFile writes the finished script to path.
func (b *Builder) WriteFile(path string) error {
	return os.WriteFile(path, []byte(b.String()), 0644)
}
