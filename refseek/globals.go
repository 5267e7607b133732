package refseek

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultAppName is used for config discovery and log fields.
	DefaultAppName    = "refseek"
	DefaultConfigPath = filepath.Join(configHome(), DefaultAppName)

	// DefaultPrefixChunks is the chunk count used by the parallel
	// prefix-table build.
	DefaultPrefixChunks = 128

	// DefaultQueryMode is used when no mode is configured.
	DefaultQueryMode = "naive"
)

func configHome() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return "/tmp"
		}
		return cwd
	}
	return filepath.Join(homeDir, ".config")
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
