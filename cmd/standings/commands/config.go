package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"standings/internal/components/telemetry"
	"standings/lib/configutil"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

const configName = "standings.json5"

type fileConfig struct {
	// Defaults maps flag names to the values used when the flag is not
	// given on the command line.
	Defaults  map[string]any   `json:"defaults"`
	Telemetry telemetry.Config `json:"telemetry"`
}

// envConfig holds the settings that can come from the environment. Zero
// values mean unset and leave the config file in charge.
type envConfig struct {
	CacheDir           string  `env:"STANDINGS_CACHE_DIR"`
	BaseURL            string  `env:"STANDINGS_BASE_URL"`
	Concurrency        int     `env:"STANDINGS_CONCURRENCY"`
	RequestsPerSecond  float64 `env:"STANDINGS_REQUESTS_PER_SECOND"`
	Verbose            bool    `env:"STANDINGS_VERBOSE"`
	OtlpTracesEndpoint string  `env:"STANDINGS_OTLP_TRACES_ENDPOINT"`
}

// overlayEnv lets environment variables take precedence over the config
// file. Flags given on the command line still win over both.
func overlayEnv(cfg *fileConfig) error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if cfg.Defaults == nil {
		cfg.Defaults = map[string]any{}
	}
	if e.CacheDir != "" {
		cfg.Defaults["cache-dir"] = e.CacheDir
	}
	if e.BaseURL != "" {
		cfg.Defaults["base-url"] = e.BaseURL
	}
	if e.Concurrency != 0 {
		cfg.Defaults["concurrency"] = strconv.Itoa(e.Concurrency)
	}
	if e.RequestsPerSecond != 0 {
		cfg.Defaults["requests-per-second"] = e.RequestsPerSecond
	}
	if e.Verbose {
		cfg.Defaults["verbose"] = true
	}
	if e.OtlpTracesEndpoint != "" {
		cfg.Telemetry.Otlp.Traces.HttpEndpoint = e.OtlpTracesEndpoint
	}
	return nil
}

// loadConfig reads path, or searches for standings.json5 upward from the
// working directory when path is empty. Not finding anything while
// searching is fine.
func loadConfig(path string) (fileConfig, error) {
	if path != "" {
		cfg, err := configutil.ReadConfig[fileConfig](path)
		if err != nil {
			return fileConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
		return cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fileConfig{}, err
	}
	cfg, found, err := configutil.ReadRecursively[fileConfig](cwd, configName)
	if errors.Is(err, os.ErrNotExist) {
		return fileConfig{}, nil
	}
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	slog.Debug("read config", "path", found)
	return cfg, nil
}

func formatDefault(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = formatDefault(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

// applyDefaults sets every flag named in defaults that was not given on the
// command line.
func applyDefaults(cmd *cobra.Command, defaults map[string]any) error {
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	flags := cmd.Flags()
	for _, name := range names {
		if name == "config" {
			continue
		}
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("config defaults: unknown flag %q", name)
		}
		if f.Changed {
			continue
		}
		err := f.Value.Set(formatDefault(defaults[name]))
		if err != nil {
			return fmt.Errorf("config defaults: %s: %w", name, err)
		}
	}
	return nil
}
