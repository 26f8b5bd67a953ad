// Package editor implements ports.Opener by running a configured editor
// command. The template names the file with {path} and the 1-based line with
// {line}, e.g. "code -g {path}:{line}" or "vim +{line} {path}".
//
// When brkit runs in a terminal the editor is started in the foreground on the
// same terminal and waited for, so terminal editors work. Otherwise it is
// started detached.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// Opener launches the editor for each Open call.
type Opener struct {
	template string
	out      io.Writer // receives "path:line" when no template is configured

	foreground bool
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

// New returns an Opener. An empty template prints the location to out instead
// of launching anything. If stdin is a terminal the editor runs in the
// foreground on the process's own streams.
func New(template string, out io.Writer) *Opener {
	o := &Opener{template: strings.TrimSpace(template), out: out}
	if fd := os.Stdin.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		o.Foreground(os.Stdin, os.Stdout, os.Stderr)
	}
	return o
}

// Foreground makes Open attach the editor to the given streams and wait for
// it to exit.
func (o *Opener) Foreground(stdin io.Reader, stdout, stderr io.Writer) *Opener {
	o.foreground = true
	o.stdin, o.stdout, o.stderr = stdin, stdout, stderr
	return o
}

// Command expands the template into argv.
func Command(template, path string, line int) ([]string, error) {
	fields := strings.Fields(template)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty editor command")
	}
	r := strings.NewReplacer("{path}", path, "{line}", strconv.Itoa(line))
	argv := make([]string, len(fields))
	for i, f := range fields {
		argv[i] = r.Replace(f)
	}
	if !strings.Contains(template, "{path}") {
		argv = append(argv, path)
	}
	return argv, nil
}

// Open starts the editor. In the foreground it returns when the editor exits;
// otherwise it returns once the editor has started.
func (o *Opener) Open(ctx context.Context, path string, line int) error {
	if o.template == "" {
		_, err := fmt.Fprintf(o.out, "%s:%d\n", path, line)
		return err
	}
	argv, err := Command(o.template, path, line)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	// Not CommandContext: an interrupt reaches a foreground editor through the
	// terminal, and a detached one outlives this call.
	cmd := exec.Command(argv[0], argv[1:]...)
	if o.foreground {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = o.stdin, o.stdout, o.stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("editor %s: %w", argv[0], err)
		}
		return nil
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start editor %s: %w", argv[0], err)
	}
	return cmd.Process.Release()
}
