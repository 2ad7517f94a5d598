package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/zendapi/moxygen/pkg/errors"
	mio "github.com/zendapi/moxygen/pkg/io"
)

const fixtureDir = "../../pkg/pipeline/testdata/xml"

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newTestCLI().RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestRenderCommandSingleDocument(t *testing.T) {
	out := filepath.Join(t.TempDir(), "api.md")
	require.NoError(t, execute(t, "render", fixtureDir, "--no-cache", "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Adds two numbers.")
}

func TestRenderCommandGroups(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, execute(t, "render", fixtureDir, "--no-cache", "-g", "-o", filepath.Join(dir, "%s.md"), "--frontmatter"))

	data, err := os.ReadFile(filepath.Join(dir, "core.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))
	assert.Contains(t, string(data), "# Core API")
}

func TestRenderCommandPickRequiresGroups(t *testing.T) {
	err := execute(t, "render", fixtureDir, "--no-cache", "--pick", "-o", filepath.Join(t.TempDir(), "api.md"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeConfiguration))
}

func TestRenderCommandUnknownKindMatchesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "api.md")
	require.NoError(t, execute(t, "render", fixtureDir, "--no-cache", "--members", "nonsense", "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Math functions.")
	assert.NotContains(t, string(data), "Adds two numbers.")
}

func TestExportCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, execute(t, "export", fixtureDir, "--no-cache", "-o", out))

	set, err := mio.ImportJSON(out)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())

	md := filepath.Join(t.TempDir(), "api.md")
	require.NoError(t, execute(t, "render", "--records", out, "-o", md))
	data, err := os.ReadFile(md)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Adds two numbers.")
}

func TestGraphCommandDOT(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tree.dot")
	require.NoError(t, execute(t, "graph", fixtureDir, "--no-cache", "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "digraph G {"))
	assert.Contains(t, string(data), "namespacemath")
}

func TestGraphCommandErrors(t *testing.T) {
	err := execute(t, "graph", fixtureDir, "--no-cache", "-o", filepath.Join(t.TempDir(), "tree.png"))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))

	err = execute(t, "graph", fixtureDir, "--no-cache", "--group", "missing", "-o", filepath.Join(t.TempDir(), "tree.dot"))
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound))
}

func TestGroupsCommand(t *testing.T) {
	require.NoError(t, execute(t, "groups", fixtureDir, "--no-cache"))
}

func TestMissingInput(t *testing.T) {
	err := execute(t, "render", filepath.Join(t.TempDir(), "missing"), "--no-cache")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound))
}
