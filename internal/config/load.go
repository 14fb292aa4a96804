package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/yndnr/hireflow-go/internal/infra/confloader"
)

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// Path is the YAML file. Empty means DefaultPath, which may be absent.
	Path string
	// Dotenv lists .env files. Nil means DefaultDotenvFile.
	Dotenv []string
	// Flags are dotted keys set on the command line, applied last.
	Flags map[string]any
}

// Load reads, merges and verifies the configuration. The returned Loader
// keeps the merged key space for later inspection.
func Load(opts LoadOptions) (*Config, *confloader.Loader, error) {
	path, err := resolvePath(opts.Path)
	if err != nil {
		return nil, nil, err
	}

	dotenv := opts.Dotenv
	if dotenv == nil {
		dotenv = []string{DefaultDotenvFile}
	}

	loaderOpts := []confloader.Option{confloader.WithDotenv(dotenv...)}
	if path != "" {
		loaderOpts = append(loaderOpts, confloader.WithConfigFile(path))
	}
	loader := confloader.NewLoader(loaderOpts...)

	cfg := Default()
	if err := loader.Load(cfg); err != nil {
		return nil, nil, err
	}

	if len(opts.Flags) > 0 {
		if err := loader.LoadMap(opts.Flags); err != nil {
			return nil, nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, nil, fmt.Errorf("unmarshal flags: %w", err)
		}
	}

	if err := Verify(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, loader, nil
}

// resolvePath returns the file to load, or "" when the default file does
// not exist. An explicit path must exist.
func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return path, nil
	}

	path = DefaultPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	return path, nil
}
