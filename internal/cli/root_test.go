package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/leapstack-labs/keelsql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command in dir and returns stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"version", "query", "exec", "shell", "serve", "init", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	for _, flag := range []string{"config", "target-type", "database", "verbose", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestCLI_EndToEnd(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := runCLI(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "keelsql.yaml")

	_, _, err = runCLI(t, "", "exec", "CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT, photo BLOB)")
	require.NoError(t, err)

	out, _, err = runCLI(t, "", "exec",
		"INSERT INTO people (id, name, photo) VALUES (?, ?, ?)",
		"-p", "int64:1", "-p", "text:ada", "-p", "bytes:AAH/")
	require.NoError(t, err)
	assert.Equal(t, "OK, 0 rows affected\n", out)

	// SQL read from stdin.
	_, _, err = runCLI(t, "INSERT INTO people (id, name) VALUES (2, 'grace');\n", "exec")
	require.NoError(t, err)

	out, _, err = runCLI(t, "", "query", "-o", "json", "SELECT id, name, photo FROM people ORDER BY id")
	require.NoError(t, err)

	var res core.QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []string{"id", "name", "photo"}, res.Rows[0].Names())

	photo, _ := res.Rows[0].Get("photo")
	assert.True(t, core.Bytes([]byte{0, 1, 255}).Equal(photo), "got %#v", photo)
	name, _ := res.Rows[1].Get("name")
	assert.True(t, core.Text("grace").Equal(name), "got %#v", name)
	photo, _ = res.Rows[1].Get("photo")
	assert.True(t, photo.IsNull())

	out, _, err = runCLI(t, "", "query", "SELECT name FROM people WHERE id = ?", "-p", "int64:2")
	require.NoError(t, err)
	assert.Contains(t, out, "grace")
	assert.Contains(t, out, "(1 row)")
}

func TestCLI_ClassifiedErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := runCLI(t, "", "query", "SELECT * FROM missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrQueryFailed)

	_, _, err = runCLI(t, "", "exec", "INSERT INTO missing VALUES (1)")
	assert.ErrorIs(t, err, core.ErrQueryFailed)
}

func TestCLI_FlagsOverrideTarget(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := runCLI(t, "", "query", "--target-type", "duckdb", "--database", ":memory:", "-o", "csv", "SELECT 42 AS answer")
	require.NoError(t, err)
	assert.Contains(t, out, "42")

	_, err = os.Stat("keel.db")
	assert.True(t, os.IsNotExist(err), "the default sqlite file must not be created")
}

func TestCLI_ConfigErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := runCLI(t, "", "query", "--target-type", "oracle", "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")

	_, _, err = runCLI(t, "", "query", "--config", "nope.yaml", "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")

	_, _, err = runCLI(t, "", "query", "-o", "xml", "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestCLI_VerboseLogsToStderr(t *testing.T) {
	t.Chdir(t.TempDir())

	_, errOut, err := runCLI(t, "", "query", "-v", "--database", ":memory:", "SELECT 1")
	require.NoError(t, err)
	assert.Contains(t, errOut, "using target")
}

func TestCLI_VersionSkipsConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("keelsql.yaml", []byte("target: [broken"), 0o600))

	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "keelsql v"+Version)
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "keelsql")

	_, _, err = runCLI(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
