package saxon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
)

// CommandError reports a SaxonC executable that exited unsuccessfully.
type CommandError struct {
	Exe      string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed (exit %d): %v\n%s\n%s", filepath.Base(e.Exe), e.ExitCode, e.Err, e.Stderr, e.Stdout)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Command runs the standalone Transform, Validate and Query executables from a
// directory. It is an alternative to the in-process Runtime.
type Command struct {
	BinDir string
	goos   string
}

// NewCommand returns a runner for executables in binDir.
func NewCommand(binDir string) *Command {
	return &Command{BinDir: binDir, goos: runtime.GOOS}
}

// Transform applies stylesheet to source and writes output.
func (c *Command) Transform(ctx context.Context, source, stylesheet, output string) (string, error) {
	return c.run(ctx, "Transform", "-s:"+source, "-xsl:"+stylesheet, "-o:"+output)
}

// Validate checks source against an XSD schema.
func (c *Command) Validate(ctx context.Context, source, schema string) (string, error) {
	return c.run(ctx, "Validate", "-s:"+source, "-xsd:"+schema)
}

// Query runs an XQuery file against source and writes output.
func (c *Command) Query(ctx context.Context, query, source, output string) (string, error) {
	return c.run(ctx, "Query", "-q:"+query, "-s:"+source, "-o:"+output)
}

// ExecutablePath returns the path of the named executable for the runner's OS.
func (c *Command) ExecutablePath(name string) string {
	if c.goos == "windows" {
		name += ".exe"
	}
	return filepath.Join(c.BinDir, name)
}

// run returns stdout followed by stderr on success.
func (c *Command) run(ctx context.Context, name string, args ...string) (string, error) {
	exe := c.ExecutablePath(name)
	if _, err := os.Stat(exe); err != nil {
		return "", fmt.Errorf("executable not found: %s: %w", exe, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		cerr := &CommandError{Exe: exe, ExitCode: -1, Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cerr.ExitCode = exitErr.ExitCode()
		}
		return "", cerr
	}

	Logger().Debug("ran saxon executable", zap.String("exe", exe), zap.Strings("args", args))
	return stdout.String() + stderr.String(), nil
}
