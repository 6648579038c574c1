package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

// exactArgs rejects calls with the wrong number of arguments and prints
// the usage line to stdout
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Usage: "+cmd.UseLine())
		return domain.NewError(domain.KindUsage, cmd.Name(), "",
			fmt.Errorf("expected %d arguments, got %d", n, len(args)))
	}
}

// isTerminal reports whether f is attached to a terminal
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// switchWriter forwards log output to a target that can be swapped while
// a terminal UI owns the screen
type switchWriter struct {
	mu     sync.Mutex
	target io.Writer
}

func (w *switchWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target.Write(p)
}

// swap replaces the target and returns the previous one
func (w *switchWriter) swap(target io.Writer) io.Writer {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.target
	w.target = target
	return prev
}

// attemptRows formats mesh attempts for ui.RenderAttempts
func attemptRows(attempts []domain.Attempt) [][]string {
	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		outcome := string(a.Outcome)
		if a.Succeeded() {
			outcome = ui.StyleSuccess.Render(outcome)
		}
		exit := "-"
		if a.Outcome != domain.OutcomeNotFound {
			exit = strconv.Itoa(a.ExitCode)
		}
		rows = append(rows, []string{a.Strategy, a.Executable, outcome, exit, ui.FormatDuration(a.Duration)})
	}
	return rows
}

// truncate shortens s to max runes with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
