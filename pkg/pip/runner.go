package pip

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// DefaultCommand is the pip executable invoked when none is configured.
const DefaultCommand = "pip"

// Runner executes a pip subcommand and returns its combined stdout.
// The concrete implementation shells out; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// ExecRunner runs pip through os/exec.
type ExecRunner struct {
	// Command is the pip executable, e.g. "pip", "pip3" or
	// "/path/to/venv/bin/pip". Empty means DefaultCommand.
	Command string
}

func (r ExecRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	command := r.Command
	if command == "" {
		command = DefaultCommand
	}

	// Allow "python -m pip" style commands.
	fields := strings.Fields(command)
	fields = append(fields, args...)

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, &CommandError{Args: args, Stderr: msg, Err: err}
		}
		return nil, &CommandError{Args: args, Err: err}
	}
	return stdout.Bytes(), nil
}

// CommandError carries pip's stderr alongside the exec failure.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return "pip " + strings.Join(e.Args, " ") + ": " + e.Stderr
	}
	return "pip " + strings.Join(e.Args, " ") + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error { return e.Err }
