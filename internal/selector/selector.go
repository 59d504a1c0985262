package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"lxcsetup/internal/suite"
)

// ErrInvalidSelection marks an explicit selection that is out of range or
// unparseable. Only the absence of input falls back to the default; an
// explicit wrong answer aborts the run.
var ErrInvalidSelection = errors.New("invalid variant selection")

// Options controls the prompt.
type Options struct {
	// Timeout bounds the wait for one line of input.
	Timeout time.Duration
	// Default names the variant used on timeout or when no terminal is
	// available. Must match a variant key.
	Default string
	// Input overrides the controlling terminal; nil opens /dev/tty so the
	// prompt works even when stdin is redirected.
	Input io.Reader
	// Output receives the prompt text; defaults to stdout.
	Output io.Writer
}

// Choose presents the variants as numbered options and returns the chosen
// one. Timeout and missing-terminal cases return the default; an explicit
// invalid answer returns ErrInvalidSelection.
func Choose(variants []suite.Variant, opts Options) (suite.Variant, error) {
	fallback, ok := variantByKey(variants, opts.Default)
	if !ok {
		return suite.Variant{}, fmt.Errorf("default variant %q is not installable", opts.Default)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	input := opts.Input
	if input == nil {
		tty, err := openTTY()
		if err != nil {
			// No controlling terminal: unattended run, take the default.
			fmt.Fprintf(out, "No terminal available; defaulting to %s\n", fallback.Name)
			return fallback, nil
		}
		defer tty.Close()
		input = tty
	}

	fmt.Fprintln(out, "Select the variant to install:")
	for i, variant := range variants {
		fmt.Fprintf(out, "  %d) %s - %s\n", i+1, variant.Name, variant.Description)
	}
	fmt.Fprintf(out, "Choice [default %s, %s timeout]: ", fallback.Name, opts.Timeout)

	line, ok := readLine(input, opts.Timeout)
	if !ok {
		fmt.Fprintf(out, "\nNo input; defaulting to %s\n", fallback.Name)
		return fallback, nil
	}

	line = strings.TrimSpace(line)
	if line == "" {
		// Bare enter counts as "user did nothing".
		return fallback, nil
	}
	index, err := strconv.Atoi(line)
	if err != nil || index < 1 || index > len(variants) {
		return suite.Variant{}, fmt.Errorf("%w: %q is not an option between 1 and %d",
			ErrInvalidSelection, line, len(variants))
	}
	return variants[index-1], nil
}

// readLine reads one line with a deadline. The second return is false when
// the deadline expires or the reader closes without delivering a line.
//
// When the deadline fires first the reader goroutine stays blocked on the
// terminal read until the process exits. The prompt runs at most once per
// invocation, so the leak is bounded to a single goroutine.
func readLine(input io.Reader, timeout time.Duration) (string, bool) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(input)
		if scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()
	select {
	case line, ok := <-lines:
		return line, ok
	case <-time.After(timeout):
		return "", false
	}
}

// openTTY opens the controlling terminal, bypassing any stdin redirection.
func openTTY() (*os.File, error) {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return nil, errors.New("stdout is not a terminal")
	}
	return os.Open("/dev/tty")
}

func variantByKey(variants []suite.Variant, key string) (suite.Variant, bool) {
	for _, variant := range variants {
		if variant.Key == key {
			return variant, true
		}
	}
	return suite.Variant{}, false
}
