// Package config handles application configuration and setup
package config

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// EnvPrefix is the prefix of the environment variables that configure
// assembler executables, for example SRCGEN_CA65.
const EnvPrefix = "SRCGEN_"

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// ExecutableEnv returns the name of the environment variable that
// configures the executable of a dialect.
func ExecutableEnv(dialect string) string {
	return EnvPrefix + strings.ToUpper(dialect)
}

// LookupExecutable returns the assembler executable of a dialect. A
// configured path has precedence over the environment variable of the
// dialect, otherwise the default executable name is searched in the path.
// It returns an empty string if no executable was found.
func LookupExecutable(dialect, configured, defaultName string) string {
	if configured != "" {
		return configured
	}
	if path := os.Getenv(ExecutableEnv(dialect)); path != "" {
		return path
	}

	name := defaultName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}
