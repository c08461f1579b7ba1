package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/alexander-akhmetov/ttct/internal/section"
)

// Collector asks the user for a field value when "set" is run without one.
type Collector interface {
	// Choose returns the value of the option picked for a choice field.
	Choose(ctx context.Context, f section.Field) (string, error)
	// Ask reads a free-text value for a text field.
	Ask(ctx context.Context, f section.Field) (string, error)
}

// TerminalCollector implements Collector using fzf (if available) or
// numbered selection.
type TerminalCollector struct {
	stdin  io.Reader // for testing, nil uses os.Stdin
	stdout io.Writer // for testing, nil uses os.Stdout
	reader *bufio.Reader
	noFzf  bool
}

// NewTerminalCollector creates a new TerminalCollector with default stdin/stdout.
func NewTerminalCollector() *TerminalCollector {
	return &TerminalCollector{}
}

// NewTerminalCollectorWithIO creates a TerminalCollector with custom I/O
// (for testing). fzf is never used.
func NewTerminalCollectorWithIO(stdin io.Reader, stdout io.Writer) *TerminalCollector {
	return &TerminalCollector{
		stdin:  stdin,
		stdout: stdout,
		noFzf:  true,
	}
}

// Choose presents the options of f and returns the picked option's value.
func (c *TerminalCollector) Choose(ctx context.Context, f section.Field) (string, error) {
	if len(f.Options) == 0 {
		return "", errors.New("no options provided")
	}

	labels := make([]string, len(f.Options))
	for i, opt := range f.Options {
		labels[i] = optionLabel(opt)
	}

	var (
		idx int
		err error
	)
	if !c.noFzf && hasFzf() {
		idx, err = c.selectWithFzf(ctx, f.Label, labels)
	} else {
		idx, err = c.selectWithNumbers(f.Label, labels)
	}
	if err != nil {
		return "", err
	}
	return f.Options[idx].Value, nil
}

// Ask prompts for a single line of text.
func (c *TerminalCollector) Ask(_ context.Context, f section.Field) (string, error) {
	prompt := f.Label
	if f.Hint != "" {
		prompt += " (" + f.Hint + ")"
	}
	_, _ = fmt.Fprintf(c.out(), "%s: ", prompt)

	line, err := c.in().ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read input: %w", err)
		}
		if line == "" {
			return "", errors.New("input stream closed")
		}
	}
	return strings.TrimSpace(line), nil
}

func optionLabel(opt section.Option) string {
	if opt.Description == "" {
		return opt.Text
	}
	return opt.Text + " - " + opt.Description
}

// hasFzf checks if fzf is available in PATH.
func hasFzf() bool {
	_, err := exec.LookPath("fzf")
	return err == nil
}

// selectWithFzf uses fzf for interactive selection.
func (c *TerminalCollector) selectWithFzf(ctx context.Context, question string, options []string) (int, error) {
	input := strings.Join(options, "\n")

	cmd := exec.CommandContext(ctx, "fzf", "--prompt", question+": ", "--height", "10", "--layout=reverse") //nolint:gosec // fzf is a trusted external tool
	cmd.Stdin = strings.NewReader(input)
	cmd.Stderr = os.Stderr

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 130 {
			return 0, errors.New("selection canceled")
		}
		return 0, fmt.Errorf("fzf selection failed: %w", err)
	}

	selected := strings.TrimSpace(string(output))
	for i, opt := range options {
		if opt == selected {
			return i, nil
		}
	}
	return 0, errors.New("no selection made")
}

// selectWithNumbers presents numbered options for selection via stdin.
func (c *TerminalCollector) selectWithNumbers(question string, options []string) (int, error) {
	stdout := c.out()

	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintln(stdout, question)
	for i, opt := range options {
		_, _ = fmt.Fprintf(stdout, "  %d) %s\n", i+1, opt)
	}
	_, _ = fmt.Fprintf(stdout, "Numero (1-%d): ", len(options))

	line, err := c.in().ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, errors.New("input stream closed")
		}
		return 0, fmt.Errorf("read input: %w", err)
	}

	line = strings.TrimSpace(line)
	num, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", line)
	}

	if num < 1 || num > len(options) {
		return 0, fmt.Errorf("selection out of range: %d (must be 1-%d)", num, len(options))
	}

	return num - 1, nil
}

func (c *TerminalCollector) in() *bufio.Reader {
	if c.reader == nil {
		stdin := c.stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		c.reader = bufio.NewReader(stdin)
	}
	return c.reader
}

func (c *TerminalCollector) out() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}
