package hasher

import (
	"context"
	"strings"

	"github.com/cbout22/nix-prefetch-github/internal/command"
)

// scriptedRunner answers commands by program name.
type scriptedRunner struct {
	results map[string]command.Result
	errs    map[string]error
	calls   [][]string
	opts    []command.Options
}

func (s *scriptedRunner) Run(_ context.Context, args []string, opts ...command.Option) (command.Result, error) {
	s.calls = append(s.calls, args)
	s.opts = append(s.opts, command.Apply(opts...))
	if err := s.errs[args[0]]; err != nil {
		return command.Result{ExitCode: -1}, err
	}
	return s.results[args[0]], nil
}

func (s *scriptedRunner) programs() []string {
	var names []string
	for _, c := range s.calls {
		names = append(names, c[0])
	}
	return names
}

func (s *scriptedRunner) commandLine(i int) string {
	return strings.Join(s.calls[i], " ")
}

type fakeFinder map[string]bool

func (f fakeFinder) Available(program string) bool { return f[program] }
