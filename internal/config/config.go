// Package config loads lazystage settings from YAML, git config and command
// line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chmouel/lazystage/internal/theme"
	"github.com/chmouel/lazystage/internal/utils"
	"gopkg.in/yaml.v3"
)

// Status backends.
const (
	BackendGit   = "git"
	BackendGoGit = "go-git"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// AppConfig defines the lazystage configuration options.
type AppConfig struct {
	GitPath       string // git executable, resolved through PATH
	StatusBackend string // "git" or "go-git"
	Theme         string // see theme.AvailableThemes
	ShowIcons     bool   // Nerd Font file icons
	AutoRefresh   bool   // refresh on filesystem changes
	DebugLog      string
	MaxPathWidth  int    // 0 disables truncation
	Color         string // "auto", "always" or "never"
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		GitPath:       "git",
		StatusBackend: BackendGit,
		ShowIcons:     true,
		AutoRefresh:   true,
		MaxPathWidth:  0,
		Color:         ColorAuto,
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func stringValue(data map[string]any, key string) (string, bool) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return "", false
	}
	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			return "", false
		}
		// multi-valued git config keys: the last one wins
		raw = list[len(list)-1]
	}
	text := strings.TrimSpace(fmt.Sprintf("%v", raw))
	return text, text != ""
}

// apply merges recognised keys from data over cfg, ignoring invalid values.
func (cfg *AppConfig) apply(data map[string]any) {
	if gitPath, ok := stringValue(data, "git_path"); ok {
		cfg.GitPath = gitPath
	}
	if backend, ok := stringValue(data, "status_backend"); ok {
		switch backend = strings.ToLower(backend); backend {
		case BackendGit, BackendGoGit:
			cfg.StatusBackend = backend
		}
	}
	if themeName, ok := stringValue(data, "theme"); ok {
		if normalized := NormalizeThemeName(themeName); normalized != "" {
			cfg.Theme = normalized
		}
	}
	if debugLog, ok := stringValue(data, "debug_log"); ok {
		cfg.DebugLog = debugLog
	}
	if color, ok := stringValue(data, "color"); ok {
		switch color = strings.ToLower(color); color {
		case ColorAuto, ColorAlways, ColorNever:
			cfg.Color = color
		}
	}

	if v, ok := data["show_icons"]; ok {
		cfg.ShowIcons = coerceBool(lastValue(v), cfg.ShowIcons)
	}
	if v, ok := data["auto_refresh"]; ok {
		cfg.AutoRefresh = coerceBool(lastValue(v), cfg.AutoRefresh)
	}
	if v, ok := data["max_path_width"]; ok {
		cfg.MaxPathWidth = coerceInt(lastValue(v), cfg.MaxPathWidth)
	}
	if cfg.MaxPathWidth < 0 {
		cfg.MaxPathWidth = 0
	}
}

func lastValue(v any) any {
	if list, ok := v.([]any); ok && len(list) > 0 {
		return list[len(list)-1]
	}
	return v
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the YAML configuration, then layers global and local git
// config ("lzs.*" keys) on top. repoPath selects the repository for local
// git config and may be empty.
func LoadConfig(configPath, repoPath string) (*AppConfig, error) {
	cfg := DefaultConfig()
	configBase := filepath.Clean(filepath.Join(getConfigDir(), "lazystage"))

	var paths []string
	if configPath != "" {
		expanded, err := utils.ExpandPath(configPath)
		if err != nil {
			return cfg, err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return cfg, err
		}
		if !isPathWithin(configBase, absPath) {
			return cfg, fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	for _, path := range paths {
		// #nosec G304 -- path is constrained to the config directory after validation
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return cfg, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.apply(yamlData)
		break
	}

	if global, err := loadGitConfig(true, ""); err == nil {
		cfg.apply(global)
	}
	if repoPath == "" {
		repoPath = determineRepoPath()
	}
	if repoPath != "" {
		if local, err := loadGitConfig(false, repoPath); err == nil {
			cfg.apply(local)
		}
	}

	return cfg, nil
}

// ApplyCLIOverrides applies "--config lzs.key=value" overrides, the highest
// precedence layer.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	cfg.apply(data)
	return nil
}

// ResolveTheme fills an unset theme from the terminal background.
func (cfg *AppConfig) ResolveTheme(hasDarkBackground bool) {
	if cfg.Theme != "" {
		return
	}
	if hasDarkBackground {
		cfg.Theme = theme.DefaultDark()
	} else {
		cfg.Theme = theme.DefaultLight()
	}
}

func isPathWithin(base, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

// NormalizeThemeName returns the canonical theme name if it is supported.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, known := range theme.AvailableThemes() {
		if name == known {
			return name
		}
	}
	return ""
}
