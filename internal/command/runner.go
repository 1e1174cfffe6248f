// Package command runs external programs on behalf of the prefetch pipeline.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// ErrEmptyCommand is returned when Run is called without a program.
var ErrEmptyCommand = errors.New("empty command")

// Result is the outcome of a finished process.
type Result struct {
	ExitCode int
	// Output holds stdout, or stdout and stderr interleaved when the
	// command ran with WithMergedStderr.
	Output string
}

// Runner executes a command line and reports its exit code and output.
// A non-zero exit code is not an error; Run only fails when the program
// could not be started at all.
type Runner interface {
	Run(ctx context.Context, args []string, opts ...Option) (Result, error)
}

// Options configures a single Run.
type Options struct {
	WorkingDir  string
	Env         map[string]string // appended to the current environment
	MergeStderr bool
}

// Option modifies Options.
type Option func(*Options)

// WithWorkingDir sets the working directory.
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnv adds environment variables.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string, len(env))
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// WithEnvVar adds a single environment variable.
func WithEnvVar(key, value string) Option {
	return WithEnv(map[string]string{key: value})
}

// WithMergedStderr captures stderr into Result.Output.
func WithMergedStderr() Option {
	return func(o *Options) {
		o.MergeStderr = true
	}
}

// Apply folds opts into a fresh Options value.
func Apply(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	logger *slog.Logger
	stderr io.Writer
}

// ExecOption configures an ExecRunner.
type ExecOption func(*ExecRunner)

// WithLogger sets the logger used for command tracing.
func WithLogger(l *slog.Logger) ExecOption {
	return func(r *ExecRunner) {
		r.logger = l
	}
}

// WithStderr sets where stderr of unmerged commands is copied.
// By default it is discarded after being logged at debug level.
func WithStderr(w io.Writer) ExecOption {
	return func(r *ExecRunner) {
		r.stderr = w
	}
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner(opts ...ExecOption) *ExecRunner {
	r := &ExecRunner{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, args []string, opts ...Option) (Result, error) {
	if len(args) == 0 {
		return Result{ExitCode: -1}, ErrEmptyCommand
	}
	o := Apply(opts...)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = o.WorkingDir
	if len(o.Env) > 0 {
		cmd.Env = append(os.Environ(), envList(o.Env)...)
	}

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	if o.MergeStderr {
		cmd.Stderr = &out
	} else if r.stderr != nil {
		cmd.Stderr = io.MultiWriter(&errOut, r.stderr)
	} else {
		cmd.Stderr = &errOut
	}

	r.logger.Debug("running command", "args", strings.Join(args, " "), "dir", o.WorkingDir)
	err := cmd.Run()

	res := Result{Output: out.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		return res, fmt.Errorf("starting %s: %w", args[0], err)
	}

	r.logger.Debug("command finished", "program", args[0], "exit_code", res.ExitCode)
	if errOut.Len() > 0 {
		r.logger.Debug("command stderr", "program", args[0], "stderr", strings.TrimSpace(errOut.String()))
	}
	return res, nil
}

// Available reports whether program can be found on PATH.
func (r *ExecRunner) Available(program string) bool {
	_, err := exec.LookPath(program)
	return err == nil
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}
