package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "fluxpress.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "site:\n  title: Blog\n"))
	require.NoError(t, err)

	assert.Equal(t, "Blog", cfg.Site.Title)
	assert.Equal(t, "zh", cfg.Site.Lang)
	assert.Equal(t, DefaultPerPage, cfg.PerPage)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.Equal(t, DefaultReportDir, cfg.Output.ReportDir)
	assert.Equal(t, runtime.NumCPU(), cfg.Build.Concurrency)
	assert.Equal(t, DefaultTitles, cfg.Titles)
	assert.Equal(t, DefaultPreviewPort, cfg.Preview.Port)
	assert.True(t, cfg.Preview.LiveReloadEnabled())
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoadFullConfig(t *testing.T) {
	theme := t.TempDir()
	body := `
site:
  lang: en-US
  title: FluxPress
  copyright: "2024"
  author: LaoLiang
  icp: 京ICP备00000000号
per_page: 5
timezone: Asia/Shanghai
theme_dir: ` + theme + `
output:
  directory: dist
  clean: true
  report_dir: reports
titles:
  home: Home
preview:
  port: 8080
  rebuild_interval: 5m
  live_reload: false
notify:
  nats_url: nats://localhost:4222
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.PerPage)
	assert.Equal(t, "京ICP备00000000号", cfg.Site.ICP)
	assert.Equal(t, "dist", cfg.Output.Directory)
	assert.True(t, cfg.Output.Clean)
	assert.Equal(t, "reports", cfg.Output.ReportDir)
	assert.Equal(t, "Home", cfg.Titles.Home)
	assert.Equal(t, DefaultTitles.Archives, cfg.Titles.Archives)
	assert.Equal(t, "Asia/Shanghai", cfg.Location().String())
	assert.Equal(t, 5*time.Minute, cfg.Preview.Interval())
	assert.False(t, cfg.Preview.LiveReloadEnabled())
	assert.Equal(t, DefaultNotifySubject, cfg.Notify.Subject)
}

func TestNotFoundTitle(t *testing.T) {
	cfg, err := Load(writeConfig(t, "site:\n  title: Blog\n"))
	require.NoError(t, err)
	assert.Equal(t, "404 Not Found", cfg.Titles.NotFound)

	cfg, err = Load(writeConfig(t, "titles:\n  not_found: 404 Not Fount\n"))
	require.NoError(t, err)
	assert.Equal(t, "404 Not Fount", cfg.Titles.NotFound)
	assert.Equal(t, DefaultTitles.Home, cfg.Titles.Home)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("FLUXPRESS_TEST_TITLE", "From Env")
	cfg, err := Load(writeConfig(t, "site:\n  title: ${FLUXPRESS_TEST_TITLE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Site.Title)
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative per_page", "per_page: -1\n"},
		{"bad timezone", "timezone: Mars/Olympus\n"},
		{"bad lang", "site:\n  lang: \"!!\"\n"},
		{"missing theme", "theme_dir: /definitely/not/here\n"},
		{"bad interval", "preview:\n  rebuild_interval: soon\n"},
		{"bad port", "preview:\n  port: 70000\n"},
		{"bad yaml", "site: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig), err.Error())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit(t *testing.T) {
	p := filepath.Join(t.TempDir(), "fluxpress.yaml")
	require.NoError(t, Init(p, false))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PerPage)
	assert.Equal(t, "LaoLiang", cfg.Site.Author)

	require.Error(t, Init(p, false))
	require.NoError(t, Init(p, true))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultPerPage, cfg.PerPage)
	assert.NotNil(t, cfg.Location())
}
