package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chmouel/lazystage/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG_CONFIG_HOME at a temp dir and mocks git config so tests
// never read the developer's settings.
func isolate(t *testing.T, gitOutput map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	prev := gitConfigMock
	gitConfigMock = func(args []string, _ string) (string, error) {
		scope := args[len(args)-1]
		return gitOutput[scope], nil
	}
	t.Cleanup(func() { gitConfigMock = prev })
	return dir
}

func writeConfig(t *testing.T, base, name, content string) string {
	t.Helper()
	dir := filepath.Join(base, "lazystage")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "git", cfg.GitPath)
	assert.Equal(t, BackendGit, cfg.StatusBackend)
	assert.True(t, cfg.ShowIcons)
	assert.True(t, cfg.AutoRefresh)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Empty(t, cfg.Theme)
	assert.Empty(t, cfg.DebugLog)
	assert.Zero(t, cfg.MaxPathWidth)
}

func TestLoadConfigWithoutFiles(t *testing.T) {
	isolate(t, nil)

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigYAML(t *testing.T) {
	base := isolate(t, nil)
	writeConfig(t, base, "config.yaml", `
git_path: /usr/local/bin/git
status_backend: GO-GIT
theme: Nord
show_icons: false
auto_refresh: "off"
max_path_width: 40
color: never
debug_log: /tmp/lazystage.log
`)

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/git", cfg.GitPath)
	assert.Equal(t, BackendGoGit, cfg.StatusBackend)
	assert.Equal(t, theme.NordName, cfg.Theme)
	assert.False(t, cfg.ShowIcons)
	assert.False(t, cfg.AutoRefresh)
	assert.Equal(t, 40, cfg.MaxPathWidth)
	assert.Equal(t, ColorNever, cfg.Color)
	assert.Equal(t, "/tmp/lazystage.log", cfg.DebugLog)
}

func TestLoadConfigIgnoresInvalidValues(t *testing.T) {
	base := isolate(t, nil)
	writeConfig(t, base, "config.yml", `
status_backend: libgit2
theme: unknown
color: sometimes
max_path_width: -5
show_icons: maybe
`)

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, BackendGit, cfg.StatusBackend)
	assert.Empty(t, cfg.Theme)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Zero(t, cfg.MaxPathWidth)
	assert.True(t, cfg.ShowIcons)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	base := isolate(t, nil)
	writeConfig(t, base, "config.yaml", "theme: [unterminated\n")

	cfg, err := LoadConfig("", "")
	require.Error(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadConfigExplicitPath(t *testing.T) {
	base := isolate(t, nil)
	path := writeConfig(t, base, "custom.yaml", "theme: dracula-light\n")

	cfg, err := LoadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, theme.DraculaLightName, cfg.Theme)

	outside := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(outside, []byte("theme: nord\n"), 0o600))
	_, err = LoadConfig(outside, "")
	assert.ErrorContains(t, err, "must reside inside")
}

func TestLoadConfigGitConfigPrecedence(t *testing.T) {
	base := isolate(t, map[string]string{
		"--global": "lzs.theme nord\nlzs.show_icons false\n",
		"--local":  "lzs.theme catppuccin-mocha\n",
	})
	writeConfig(t, base, "config.yaml", "theme: dracula\nauto_refresh: false\n")

	cfg, err := LoadConfig("", "/some/repo")
	require.NoError(t, err)
	assert.Equal(t, theme.CatppuccinMochaName, cfg.Theme)
	assert.False(t, cfg.ShowIcons)
	assert.False(t, cfg.AutoRefresh)
}

func TestLoadConfigGitConfigErrorIgnored(t *testing.T) {
	isolate(t, nil)
	gitConfigMock = func([]string, string) (string, error) {
		return "", errors.New("git missing")
	}

	cfg, err := LoadConfig("", "/repo")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestApplyCLIOverrides(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyCLIOverrides([]string{
		"lzs.theme=nord",
		"lzs.max_path_width=30",
		"lzs.git_path=/opt/git=2/bin/git",
		"lzs.color=always",
		"lzs.color=never",
	}))

	assert.Equal(t, theme.NordName, cfg.Theme)
	assert.Equal(t, 30, cfg.MaxPathWidth)
	assert.Equal(t, "/opt/git=2/bin/git", cfg.GitPath)
	assert.Equal(t, ColorNever, cfg.Color)
}

func TestParseCLIConfigOverridesErrors(t *testing.T) {
	tests := []struct {
		name     string
		override string
		errMsg   string
	}{
		{"missing equals", "lzs.theme", "expected format"},
		{"wrong prefix", "lw.theme=nord", "must start with"},
		{"empty key", "lzs.=nord", "empty config key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCLIConfigOverrides([]string{tt.override})
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestParseGitConfigOutput(t *testing.T) {
	got := parseGitConfigOutput("lzs.git_path /path/with space/git\nlzs.theme nord\nlzs.theme dracula\nbroken\n")
	assert.Equal(t, map[string][]string{
		"git_path": {"/path/with space/git"},
		"theme":    {"nord", "dracula"},
	}, got)
	assert.Empty(t, parseGitConfigOutput(""))
}

func TestCoerce(t *testing.T) {
	assert.True(t, coerceBool("YES", false))
	assert.False(t, coerceBool("off", true))
	assert.True(t, coerceBool(1, false))
	assert.True(t, coerceBool(nil, true))
	assert.False(t, coerceBool(3.5, false))

	assert.Equal(t, 12, coerceInt(" 12 ", 0))
	assert.Equal(t, 7, coerceInt("x", 7))
	assert.Equal(t, 3, coerceInt(3, 0))
	assert.Equal(t, 9, coerceInt(true, 9))
}

func TestResolveTheme(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResolveTheme(true)
	assert.Equal(t, theme.DefaultDark(), cfg.Theme)

	cfg = DefaultConfig()
	cfg.ResolveTheme(false)
	assert.Equal(t, theme.DefaultLight(), cfg.Theme)

	cfg.Theme = theme.NordName
	cfg.ResolveTheme(false)
	assert.Equal(t, theme.NordName, cfg.Theme)
}

func TestIsPathWithin(t *testing.T) {
	assert.True(t, isPathWithin("/a/b", "/a/b"))
	assert.True(t, isPathWithin("/a/b", "/a/b/c.yaml"))
	assert.False(t, isPathWithin("/a/b", "/a/bc"))
	assert.False(t, isPathWithin("/a/b", "/a"))
}
