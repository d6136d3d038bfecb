package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestConsole(color bool) (*Console, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &Console{Color: color, Out: out, Err: errOut}, out, errOut
}

func TestPlainOutput(t *testing.T) {
	c, out, errOut := newTestConsole(false)

	c.Output("FROM scratch")
	c.Successf("Valid! (%d instructions)", 1)
	c.Warn("line 3 skipped")
	c.Error("invalid COPY\nhint: check flags")

	require.Equal(t, "FROM scratch\n✓ Valid! (1 instructions)\n", out.String())
	require.Equal(t, "⚠ line 3 skipped\nⅹ invalid COPY\n  hint: check flags\n", errOut.String())
}

func TestColorOutput(t *testing.T) {
	c, out, _ := newTestConsole(true)
	c.Success("done")
	require.Contains(t, out.String(), "\x1b[")
	require.Contains(t, out.String(), "done")

	require.NotEqual(t, "x", c.Bold("x"))
	require.NotEqual(t, "x", c.Faint("x"))
}

func TestNoColorLeavesTextAlone(t *testing.T) {
	c, _, _ := newTestConsole(false)
	require.Equal(t, "x", c.Bold("x"))
	require.Equal(t, "x", c.Faint("x"))
}
