// Package shell provides the shell command runner adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.CommandRunner by spawning a shell per command.
type Runner struct {
	dir    string
	logger ports.Logger
}

// NewRunner creates a Runner executing commands in the given directory.
func NewRunner(dir string, logger ports.Logger) *Runner {
	return &Runner{dir: dir, logger: logger}
}

// Run executes the command through `sh -c` and blocks until it exits. Output
// goes to stdout/stderr when provided, otherwise to the logger. A non-zero
// exit is returned as an error carrying the exit code.
func (r *Runner) Run(ctx context.Context, command string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command) //nolint:gosec // user provided command
	cmd.Dir = r.dir

	var logOut, logErr *logWriter
	if stdout == nil {
		logOut = &logWriter{logger: r.logger, level: "info"}
		stdout = logOut
	}
	if stderr == nil {
		logErr = &logWriter{logger: r.logger, level: "error"}
		stderr = logErr
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	logOut.flush()
	logErr.flush()

	if err != nil {
		exitCode := -1 // unknown or signal
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode), "command", command)
	}

	return nil
}

// logWriter forwards process output to the logger line by line. Partial lines
// are buffered across writes until their newline arrives or flush is called.
type logWriter struct {
	logger ports.Logger
	level  string
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf.Write(p)
	for {
		data := w.buf.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		w.emit(string(data[:i]))
		w.buf.Next(i + 1)
	}
	return len(p), nil
}

// flush emits a trailing line the process never terminated.
func (w *logWriter) flush() {
	if w == nil || w.buf.Len() == 0 {
		return
	}
	w.emit(w.buf.String())
	w.buf.Reset()
}

func (w *logWriter) emit(line string) {
	if w.level == "info" {
		w.logger.Info(line)
	} else {
		w.logger.Error(zerr.New(line))
	}
}
