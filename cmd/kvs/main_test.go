package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runKvs(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)

	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestCLISetGetRemove(t *testing.T) {
	dir := t.TempDir()

	res := runKvs(t, "", "set", "a", "1", "--dir", dir)
	require.Equal(t, result{code: 0}, res)

	res = runKvs(t, "", "set", "a", "2", "--dir", dir)
	require.Equal(t, 0, res.code)

	res = runKvs(t, "", "get", "a", "--dir", dir)
	require.Equal(t, result{code: 0, stdout: "2\n"}, res)

	res = runKvs(t, "", "rm", "a", "--dir", dir)
	require.Equal(t, result{code: 0}, res)

	res = runKvs(t, "", "get", "a", "--dir", dir)
	require.Equal(t, result{code: 0, stdout: "Key not found\n"}, res)
}

func TestCLIRemoveMissingKeyFails(t *testing.T) {
	dir := t.TempDir()

	res := runKvs(t, "", "rm", "missing", "--dir", dir)
	require.Equal(t, 1, res.code)
	require.Equal(t, "Key not found\n", res.stdout)
	require.Empty(t, res.stderr)
}

func TestCLIGetMissingKeySucceeds(t *testing.T) {
	res := runKvs(t, "", "get", "missing", "--dir", t.TempDir())
	require.Equal(t, result{code: 0, stdout: "Key not found\n"}, res)
}

func TestCLILogFileFlag(t *testing.T) {
	dir := t.TempDir()

	res := runKvs(t, "", "set", "a", "1", "--dir", dir, "--log-file", "other.log")
	require.Equal(t, 0, res.code)
	require.FileExists(t, filepath.Join(dir, "other.log"))

	res = runKvs(t, "", "get", "a", "--dir", dir)
	require.Equal(t, "Key not found\n", res.stdout)

	res = runKvs(t, "", "get", "a", "--dir", dir, "--log-file", "other.log")
	require.Equal(t, "1\n", res.stdout)
}

func TestCLIErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing directory", []string{"get", "a", "--dir", filepath.Join(t.TempDir(), "missing")}},
		{"set without value", []string{"set", "a", "--dir", t.TempDir()}},
		{"get with extra args", []string{"get", "a", "b", "--dir", t.TempDir()}},
		{"unknown command", []string{"frobnicate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runKvs(t, "", tt.args...)
			require.Equal(t, 1, res.code)
			require.Contains(t, res.stderr, "Error:")
		})
	}
}

func TestCLIVersion(t *testing.T) {
	res := runKvs(t, "", "--version")
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, version)
}

func TestCLIShell(t *testing.T) {
	dir := t.TempDir()

	input := strings.Join([]string{
		`set city "new york"`,
		`GET city`,
		`set a 1`,
		`count`,
		`keys`,
		`exists city`,
		`rm city`,
		`rm city`,
		`get city`,
		`exists city`,
		`set onlykey`,
		`set k "unterminated`,
		`bogus`,
		`exit`,
		`set never reached`,
	}, "\n")

	res := runKvs(t, input, "shell", "--dir", dir)
	require.Equal(t, 0, res.code)

	// Responses may contain "> " themselves, so cut on the prompt at the
	// start of a line only.
	responses := strings.Split(res.stdout, "\n> ")
	require.Len(t, responses, 15)
	require.Equal(t, []string{
		"ok",
		"new york",
		"ok",
		"2",
		"a\ncity",
		"true",
		"new york",
		"Key not found",
		"Key not found",
		"false",
		"usage: set <key> <value>",
	}, responses[1:12])
	require.True(t, strings.HasPrefix(responses[12], "parse error:"), responses[12])
	require.Equal(t, "Invalid Command", responses[13])
	require.Equal(t, "", responses[14])

	res = runKvs(t, "", "get", "a", "--dir", dir)
	require.Equal(t, "1\n", res.stdout)
	res = runKvs(t, "", "get", "never", "--dir", dir)
	require.Equal(t, "Key not found\n", res.stdout)
}

func TestCLIVerboseLogsToStderr(t *testing.T) {
	dir := t.TempDir()

	res := runKvs(t, "", "set", "a", "1", "--dir", dir, "-v")
	require.Equal(t, 0, res.code)
	require.Empty(t, res.stdout)
	require.Contains(t, res.stderr, "store opened")
	require.Contains(t, res.stderr, "store closed")

	res = runKvs(t, "", "get", "a", "--dir", dir)
	require.Equal(t, result{code: 0, stdout: "1\n"}, res)
}

func TestCLIShellEndOfInput(t *testing.T) {
	dir := t.TempDir()

	res := runKvs(t, "set a 1\nstats", "shell", "--dir", dir)
	require.Equal(t, 0, res.code)
	require.Contains(t, res.stdout, "keys: 1\n")
	require.Contains(t, res.stdout, "log: ")
}
