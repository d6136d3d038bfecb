// Package console prints command results for people. Diagnostics go through
// logrus on stderr; primary output goes to the console's writer.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/logrusorgru/aurora"
	"github.com/mattn/go-isatty"
)

// Console writes prefixed, optionally coloured lines
type Console struct {
	Color bool
	Out   io.Writer
	Err   io.Writer
	mu    sync.Mutex
}

// New returns a console on stdout and stderr, coloured when stdout is a
// terminal.
func New() *Console {
	return &Console{
		Color: IsTTY(os.Stdout),
		Out:   os.Stdout,
		Err:   os.Stderr,
	}
}

// IsTTY checks if a file is a terminal, e.g. IsTTY(os.Stdout)
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Output writes s to Out followed by a newline
func (c *Console) Output(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.Out, s)
}

// Success reports a finished step on Out
func (c *Console) Success(msg string) {
	c.print(c.Out, c.paint("✓ ", aurora.GreenFg), msg)
}

func (c *Console) Successf(msg string, v ...interface{}) {
	c.Success(fmt.Sprintf(msg, v...))
}

// Warn tells the user that something might break
func (c *Console) Warn(msg string) {
	c.print(c.Err, c.paint("⚠ ", aurora.YellowFg), msg)
}

func (c *Console) Warnf(msg string, v ...interface{}) {
	c.Warn(fmt.Sprintf(msg, v...))
}

// Error tells the user that something is broken
func (c *Console) Error(msg string) {
	c.print(c.Err, c.paint("ⅹ ", aurora.RedFg), msg)
}

func (c *Console) Errorf(msg string, v ...interface{}) {
	c.Error(fmt.Sprintf(msg, v...))
}

// Faint renders s dimmed when colour is on
func (c *Console) Faint(s string) string {
	if !c.Color {
		return s
	}
	return aurora.Faint(s).String()
}

// Bold renders s in bold when colour is on
func (c *Console) Bold(s string) string {
	if !c.Color {
		return s
	}
	return aurora.Bold(s).String()
}

func (c *Console) paint(prefix string, color aurora.Color) string {
	if !c.Color {
		return prefix
	}
	return aurora.Colorize(prefix, color).String()
}

// print prefixes only the first line; following lines are indented under it
func (c *Console) print(w io.Writer, prefix, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	indent := strings.Repeat(" ", 2)
	for i, line := range strings.Split(msg, "\n") {
		if i == 0 {
			fmt.Fprintln(w, prefix+line)
			continue
		}
		fmt.Fprintln(w, indent+line)
	}
}
