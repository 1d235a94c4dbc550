package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-no-color"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunExpression(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "-e", "var x = 1; x = x + 2; x")
	require.Equal(t, 0, code, stderr)
	require.Equal(t, "3\n", stdout)
}

func TestRunExpressionException(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "-e", "missing")
	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Equal(t, "Exception: Use of undeclared identifier\n", stderr)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.wsk")
	require.NoError(t, os.WriteFile(ok, []byte(`
# greet prints a greeting
var greet = fn(name) { console.println("hello,", name) };
greet("whiskey")
`), 0o644))

	code, stdout, stderr := runCLI(t, "", ok)
	require.Equal(t, 0, code, stderr)
	require.Equal(t, "hello, whiskey\n", stdout)

	bad := filepath.Join(dir, "bad.wsk")
	require.NoError(t, os.WriteFile(bad, []byte(`1 + "a"`), 0o644))
	code, _, stderr = runCLI(t, "", bad)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "TypeError: Unsupported classes for +: Integer and String")

	code, _, stderr = runCLI(t, "", filepath.Join(dir, "missing.wsk"))
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "missing.wsk")
}

func TestRunREPLFromPipe(t *testing.T) {
	code, stdout, stderr := runCLI(t, "var a = 2\na * 21\n")
	require.Equal(t, 0, code, stderr)
	require.Equal(t, ">> 2\n>> 42\n>> \n", stdout)
}

func TestRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whiskey.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompt: \"$ \"\nlog:\n  format: json\n"), 0o644))

	code, stdout, stderr := runCLI(t, "1\n", "-config", path, "-v")
	require.Equal(t, 0, code, stderr)
	require.Equal(t, "$ 1\n$ \n", stdout)
	require.Contains(t, stderr, `"msg":"evaluated"`)

	code, _, stderr = runCLI(t, "", "-config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "config: read")
}

func TestRunBadFlag(t *testing.T) {
	code, _, stderr := runCLI(t, "", "-bogus")
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "Usage: whiskey")
}
