package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// keyPrefix namespaces lazystage keys in git config and --config overrides.
const keyPrefix = "lzs."

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config and returns its raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// exit 1 means no matching key
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses "git config --get-regexp" output into a
// multi-value map keyed without the prefix.
// Input format: "lzs.theme nord\nlzs.show_icons false\n"
func parseGitConfigOutput(output string) map[string][]string {
	configMap := make(map[string][]string)
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		// values may contain spaces
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimPrefix(parts[0], keyPrefix)
		configMap[key] = append(configMap[key], parts[1])
	}
	return configMap
}

// convertGitConfig converts to the map shape apply expects.
func convertGitConfig(gitCfg map[string][]string) map[string]any {
	result := make(map[string]any, len(gitCfg))
	for key, values := range gitCfg {
		switch len(values) {
		case 0:
			continue
		case 1:
			result[key] = values[0]
		default:
			anySlice := make([]any, len(values))
			for i, v := range values {
				anySlice[i] = v
			}
			result[key] = anySlice
		}
	}
	return result
}

// loadGitConfig reads lzs.* keys from the global or local git config.
func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config", "--get-regexp", `^lzs\.`}
	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		return nil, err
	}
	return convertGitConfig(parseGitConfigOutput(output)), nil
}

func isInGitRepo(path string) bool {
	if path == "" || gitConfigMock != nil {
		return false
	}
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = path
	return cmd.Run() == nil
}

// determineRepoPath returns the repository used for local git config lookup.
func determineRepoPath() string {
	if wd, err := os.Getwd(); err == nil && isInGitRepo(wd) {
		return wd
	}
	return ""
}

// parseCLIConfigOverrides parses "lzs.key=value" overrides. Repeated keys
// turn into lists, matching multi-valued git config keys.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	grouped := make(map[string][]string)

	for _, override := range overrides {
		fullKey, value, found := strings.Cut(override, "=")
		if !found {
			return nil, fmt.Errorf("invalid config override: %q, expected format: lzs.key=value (note: use = not space)", override)
		}
		if !strings.HasPrefix(fullKey, keyPrefix) {
			return nil, fmt.Errorf("config override key must start with %q: %q", keyPrefix, fullKey)
		}
		key := strings.TrimPrefix(fullKey, keyPrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		grouped[key] = append(grouped[key], value)
	}

	return convertGitConfig(grouped), nil
}
