package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags clears values left behind by a previous Execute.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace([]string{})
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, dir, "", args...)
}

func runWithInput(t *testing.T, dir, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--store-dir", dir, "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestParameterWorkflow(t *testing.T) {
	dir := t.TempDir()

	id, err := run(t, dir, "shortcut", "create", "--name", "signup", "--method", "POST", "--url", "http://example.com/signup")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	nameID, err := run(t, dir, "param", "add", id, "--key", "name")
	require.NoError(t, err)
	assert.Equal(t, "1", nameID)

	ageID, err := run(t, dir, "param", "add", id, "--key", "age")
	require.NoError(t, err)
	assert.Equal(t, "2", ageID)

	_, err = run(t, dir, "param", "update", id, nameID, "--value", "{{who}}")
	require.NoError(t, err)

	_, err = run(t, dir, "param", "move", id, ageID, "0")
	require.NoError(t, err)

	out, err := run(t, dir, "param", "list", id)
	require.NoError(t, err)
	assert.Equal(t, "[0] id=2 age=\n  [1] id=1 name={{who}}", out)

	_, err = run(t, dir, "exec", id)
	assert.ErrorContains(t, err, "missing variables: who")

	out, err = run(t, dir, "exec", id, "--var", "who=Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "POST /signup HTTP/1.1")
	assert.Contains(t, out, "age=&name=Alice")

	_, err = run(t, dir, "param", "remove", id, "99")
	assert.Error(t, err)

	_, err = run(t, dir, "param", "remove", id, ageID)
	require.NoError(t, err)
	_, err = run(t, dir, "param", "remove", id, ageID)
	assert.Error(t, err)
}

func TestImportAndSend(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := new(bytes.Buffer)
		b.ReadFrom(r.Body)
		gotBody = b.String()
		w.Write([]byte("accepted"))
	}))
	defer server.Close()

	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(file, []byte("parameters:\n  - key: tag\n    value: a\n  - key: tag\n    value: b\n"), 0o644))

	id, err := run(t, dir, "shortcut", "create", "--name", "tags", "--method", "PUT", "--url", server.URL+"/tags")
	require.NoError(t, err)

	_, err = run(t, dir, "param", "import", id, "--from-file", file)
	require.NoError(t, err)

	out, err := run(t, dir, "exec", id, "--send")
	require.NoError(t, err)
	assert.Contains(t, out, "accepted")
	assert.Equal(t, "tag=a&tag=b", gotBody)

	out, err = run(t, dir, "shortcut", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "tags")

	_, err = run(t, dir, "shortcut", "delete", id)
	require.NoError(t, err)
	_, err = run(t, dir, "shortcut", "show", id)
	assert.Error(t, err)
}

func TestRemovedParameterIDIsNotReissued(t *testing.T) {
	dir := t.TempDir()

	id, err := run(t, dir, "shortcut", "create", "--name", "ids", "--method", "POST", "--url", "http://localhost/")
	require.NoError(t, err)

	_, err = run(t, dir, "param", "add", id, "--key", "a")
	require.NoError(t, err)
	highest, err := run(t, dir, "param", "add", id, "--key", "b")
	require.NoError(t, err)
	assert.Equal(t, "2", highest)

	_, err = run(t, dir, "param", "remove", id, highest)
	require.NoError(t, err)

	next, err := run(t, dir, "param", "add", id, "--key", "c")
	require.NoError(t, err)
	assert.Equal(t, "3", next)

	_, err = run(t, dir, "param", "update", id, highest, "--value", "x")
	assert.Error(t, err)
}

func TestImportRepeatedParamFlags(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"parameters":[{"key":"c","value":"3"}]}`), 0o644))

	id, err := run(t, dir, "shortcut", "create", "--name", "bulk", "--method", "POST", "--url", "http://localhost/")
	require.NoError(t, err)

	_, err = run(t, dir, "param", "import", id, "--param", "b=2", "--param", "a=x=y", "--from-file", file)
	require.NoError(t, err)

	out, err := run(t, dir, "param", "list", id)
	require.NoError(t, err)
	assert.Equal(t, "[0] id=1 b=2\n  [1] id=2 a=x=y\n  [2] id=3 c=3", out)

	_, err = run(t, dir, "param", "import", id, "--param", "novalue")
	assert.Error(t, err)

	_, err = run(t, dir, "param", "import", id)
	assert.ErrorContains(t, err, "either --param or --from-file")
}

func TestExecRequiresConfirmation(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	dir := t.TempDir()
	id, err := run(t, dir, "shortcut", "create", "--name", "careful", "--url", server.URL,
		"--require-confirmation", "--delay", "10ms")
	require.NoError(t, err)

	out, err := runWithInput(t, dir, "n\n", "exec", id, "--send")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Equal(t, int32(0), hits.Load())

	_, err = runWithInput(t, dir, "yes\n", "exec", id, "--send")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	_, err = run(t, dir, "exec", id, "--send", "--yes")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestExecRetriesFlag(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			if conn, _, err := w.(http.Hijacker).Hijack(); err == nil {
				conn.Close()
			}
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	dir := t.TempDir()
	id, err := run(t, dir, "shortcut", "create", "--name", "flaky", "--url", server.URL)
	require.NoError(t, err)

	out, err := run(t, dir, "exec", id, "--send", "--retries", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "recovered")
	assert.Equal(t, int32(2), hits.Load())
}
