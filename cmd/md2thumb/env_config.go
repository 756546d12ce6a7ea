package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2thumb/internal/config"
)

// envPrefix namespaces the environment variables read by md2thumb.
const envPrefix = "MD2THUMB_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MD2THUMB_CONFIG: config file name or path
	Root       string        // MD2THUMB_ROOT: base directory for relative paths
	Workers    int           // MD2THUMB_WORKERS: parallel workers
	Timeout    time.Duration // MD2THUMB_TIMEOUT: page load timeout
	Renderer   string        // MD2THUMB_RENDERER: builtin or marp
	Theme      string        // MD2THUMB_THEME: theme stylesheet path
	Collision  string        // MD2THUMB_COLLISION: overwrite or error
}

// knownEnvVars lists valid MD2THUMB_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2THUMB_CONFIG":    true,
	"MD2THUMB_ROOT":      true,
	"MD2THUMB_WORKERS":   true,
	"MD2THUMB_TIMEOUT":   true,
	"MD2THUMB_RENDERER":  true,
	"MD2THUMB_THEME":     true,
	"MD2THUMB_COLLISION": true,
	"MD2THUMB_CONTAINER": true, // doctor container override
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable or non-positive numbers are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2THUMB_CONFIG"),
		Root:       os.Getenv("MD2THUMB_ROOT"),
		Renderer:   os.Getenv("MD2THUMB_RENDERER"),
		Theme:      os.Getenv("MD2THUMB_THEME"),
		Collision:  os.Getenv("MD2THUMB_COLLISION"),
	}

	if timeout := os.Getenv("MD2THUMB_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MD2THUMB_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2THUMB_* variables.
// Helps catch typos like MD2THUMB_WORKER instead of MD2THUMB_WORKERS.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are applied later via
// mergeFlags, giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Root != "" {
		cfg.Root = env.Root
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.Timeout > 0 {
		cfg.Capture.Timeout = env.Timeout.String()
	}
	if env.Renderer != "" {
		cfg.Render.Backend = env.Renderer
	}
	if env.Theme != "" {
		cfg.Paths.Theme = env.Theme
	}
	if env.Collision != "" {
		cfg.Output.Collision = env.Collision
	}
}
