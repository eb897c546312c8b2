package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chmouel/lazystage/internal/cli"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/git"
	"github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/theme"
	"github.com/chmouel/lazystage/internal/utils"
	"github.com/muesli/termenv"
	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// hasDarkBackground is swapped in tests to keep terminal queries out.
var hasDarkBackground = termenv.HasDarkBackground

// session carries everything a subcommand needs once flags are resolved.
type session struct {
	cfg     *config.AppConfig
	service *git.Service
	backend cli.Backend
	cwd     string // where relative path arguments are resolved
}

// newSession loads configuration and opens the repository selected by the
// global flags.
func newSession(ctx context.Context, cmd *urfavecli.Command) (*session, error) {
	debugLog := cmd.String("debug-log")
	if debugLog != "" {
		setupDebugLog(debugLog)
	}

	cwd, err := resolveDir(cmd.String("dir"))
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd, cwd)
	if err != nil {
		return nil, err
	}

	if debugLog == "" {
		setupDebugLog(cfg.DebugLog)
	}

	service, err := git.NewService(git.Options{GitPath: cfg.GitPath, Dir: cwd})
	if err != nil {
		return nil, err
	}
	if err := service.UseRepoRoot(ctx); err != nil {
		return nil, err
	}
	log.Printf("repository root: %s (backend %s)", service.Dir(), cfg.StatusBackend)

	return &session{
		cfg:     cfg,
		service: service,
		backend: cli.Backend{Enumerator: newEnumerator(cfg, service), Commands: service},
		cwd:     cwd,
	}, nil
}

// loadConfig layers the config file, git config and the command line.
func loadConfig(cmd *urfavecli.Command, repoPath string) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(cmd.String("config-file"), repoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if gitPath := cmd.String("git"); gitPath != "" {
		cfg.GitPath = gitPath
	}

	if overrides := cmd.StringSlice("config"); len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	if err := applyThemeConfig(cfg, cmd.String("theme")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyThemeConfig applies the --theme flag, then falls back to the terminal
// background when no theme is configured at all.
func applyThemeConfig(cfg *config.AppConfig, themeName string) error {
	if themeName != "" {
		normalized := config.NormalizeThemeName(themeName)
		if normalized == "" {
			return fmt.Errorf("unknown theme %q", themeName)
		}
		cfg.Theme = normalized
	}
	if cfg.Theme != "" && config.NormalizeThemeName(cfg.Theme) == "" {
		return fmt.Errorf("unknown theme %q", cfg.Theme)
	}
	cfg.ResolveTheme(hasDarkBackground())
	cfg.Theme = config.NormalizeThemeName(cfg.Theme)
	return nil
}

func newEnumerator(cfg *config.AppConfig, service *git.Service) git.Enumerator {
	if cfg.StatusBackend == config.BackendGoGit {
		return git.GoGitEnumerator{Dir: service.Dir()}
	}
	return service
}

func resolveDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	expanded, err := utils.ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("error expanding dir: %w", err)
	}
	return filepath.Abs(expanded)
}

// setupDebugLog points the debug logger at path. An empty path discards the
// buffered output.
func setupDebugLog(path string) {
	if path == "" {
		_ = log.SetFile("")
		return
	}
	if expanded, err := utils.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

// colorProfile picks the output colour profile for w.
func colorProfile(w io.Writer, mode string, noColor bool) termenv.Profile {
	if noColor {
		return termenv.Ascii
	}
	switch mode {
	case config.ColorNever:
		return termenv.Ascii
	case config.ColorAlways:
		return termenv.TrueColor
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}

func statusOptions(s *session, w io.Writer, noColor, icons bool) cli.StatusOptions {
	return cli.StatusOptions{
		Profile: colorProfile(w, s.cfg.Color, noColor),
		Icons:   icons,
		Theme:   theme.GetTheme(s.cfg.Theme),
	}
}
