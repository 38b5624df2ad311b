package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxpress/theme-classic/internal/config"
	"github.com/fluxpress/theme-classic/internal/foundation/errors"
)

const issuesJSON = `{
  "issues": [
    {"id": 1, "title": "Hello", "body": "first", "created_at": "2024-01-05T10:00:00Z", "milestone": {"id": 7, "title": "Notes"}},
    {"id": 2, "title": "Again", "body": "second", "created_at": "2024-02-01T10:00:00Z"}
  ],
  "milestones": [{"id": 7, "title": "Notes"}],
  "labels": []
}`

type project struct {
	dir    string
	config string
	output string
}

func newProject(t *testing.T, extra string) project {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(data, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "issues.json"), []byte(issuesJSON), 0o600))

	p := project{dir: dir, config: filepath.Join(dir, "fluxpress.yaml"), output: filepath.Join(dir, "public")}
	yaml := "site:\n  title: Test Blog\nper_page: 1\ntimezone: UTC\n" +
		"data_dir: " + data + "\noutput:\n  directory: " + p.output + "\n  report_dir: " + filepath.Join(dir, "reports") + "\n" + extra
	require.NoError(t, os.WriteFile(p.config, []byte(yaml), 0o600))
	return p
}

func TestGenerateCommand(t *testing.T) {
	p := newProject(t, "")
	var out bytes.Buffer

	err := (&GenerateCmd{}).run(context.Background(), &Global{Out: &out}, &CLI{Config: p.config})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "outcome=success")
	assert.Contains(t, out.String(), "posts=2")

	index, err := os.ReadFile(filepath.Join(p.output, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "Test Blog")
	assert.FileExists(t, filepath.Join(p.output, "page", "2", "index.html"))
	assert.FileExists(t, filepath.Join(p.output, "categories", "7", "index.html"))
	assert.FileExists(t, filepath.Join(p.dir, "reports", "build-report.json"))
	assert.NoFileExists(t, filepath.Join(p.output, "build-report.json"))
}

func TestGenerateOutputOverride(t *testing.T) {
	p := newProject(t, "")
	alt := filepath.Join(p.dir, "alt")
	var out bytes.Buffer

	require.NoError(t, (&GenerateCmd{Output: alt}).run(context.Background(), &Global{Out: &out}, &CLI{Config: p.config}))
	assert.FileExists(t, filepath.Join(alt, "404.html"))
	assert.NoDirExists(t, p.output)
}

func TestGenerateMissingConfig(t *testing.T) {
	err := (&GenerateCmd{}).run(context.Background(), &Global{Out: &bytes.Buffer{}}, &CLI{Config: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.Equal(t, 7, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestGenerateMissingData(t *testing.T) {
	p := newProject(t, "")
	require.NoError(t, os.Remove(filepath.Join(p.dir, "data", "issues.json")))

	var out bytes.Buffer
	err := (&GenerateCmd{}).run(context.Background(), &Global{Out: &out}, &CLI{Config: p.config})
	require.Error(t, err)
	assert.Equal(t, 9, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.Contains(t, out.String(), "outcome=failed")
}

func TestHistoryAfterGenerate(t *testing.T) {
	p := newProject(t, "history:\n  enabled: true\n  path: "+filepath.Join(t.TempDir(), "history.db")+"\n")
	root := &CLI{Config: p.config}
	global := &Global{Out: &bytes.Buffer{}}

	cmd := &GenerateCmd{}
	require.NoError(t, cmd.run(context.Background(), global, root))
	require.NoError(t, cmd.run(context.Background(), global, root))

	var out bytes.Buffer
	require.NoError(t, (&HistoryCmd{Limit: 10}).Run(&Global{Out: &out}, root))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "STATUS")
	assert.Contains(t, lines[1], "success")
}

func TestHistoryDisabled(t *testing.T) {
	p := newProject(t, "")
	err := (&HistoryCmd{Limit: 5}).Run(&Global{Out: &bytes.Buffer{}}, &CLI{Config: p.config})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluxpress.yaml")
	var out bytes.Buffer
	require.NoError(t, (&InitCmd{}).Run(&Global{Out: &out}, &CLI{Config: path}))
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), path)

	err := (&InitCmd{}).Run(&Global{Out: &out}, &CLI{Config: path})
	require.Error(t, err)
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{Out: &out}, &CLI{Config: path}))
}

func TestPreviewServerOptions(t *testing.T) {
	p := newProject(t, "preview:\n  port: 4100\n  live_reload: false\n")
	root := &CLI{Config: p.config}
	require.NoError(t, root.AfterApply())

	cfgCmd := &PreviewCmd{Port: 4200}
	cfg, err := config.Load(p.config)
	require.NoError(t, err)
	srv, err := cfgCmd.server(p.config, cfg)
	require.NoError(t, err)
	assert.NotNil(t, srv.Hub())
}

func TestParseCommandLine(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"--config", "site.yaml", "preview", "--port", "5000", "--no-live-reload"})
	require.NoError(t, err)
	assert.Equal(t, "preview", ctx.Command())
	assert.Equal(t, 5000, cli.Preview.Port)
	assert.True(t, cli.Preview.NoLiveReload)
	assert.True(t, filepath.IsAbs(cli.Config))

	ctx, err = parser.Parse([]string{"history", "-n", "3"})
	require.NoError(t, err)
	assert.Equal(t, "history", ctx.Command())
	assert.Equal(t, 3, cli.History.Limit)
}
