package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/fakir/pkg/utils"
)

const CONFIG_FILE = ".fakir"

// Config holds defaults for generation. Unset
// fields do not override other settings.
type Config struct {
	Seed   *int64  `json:"seed,omitempty"`
	Rows   *int    `json:"rows,omitempty"`
	Format *string `json:"format,omitempty"`
}

// GetConfig merges the config files in the home directory,
// the user config directory and the current directory.
// Environment variables override the file settings.
func GetConfig(fs vfs.FileSystem, getenv func(string) string) (*Config, error) {
	var cfg Config

	var files []string
	dir, err := os.UserHomeDir()
	if err == nil {
		files = append(files, filepath.Join(dir, CONFIG_FILE))
	}
	dir, err = os.UserConfigDir()
	if err == nil {
		files = append(files, filepath.Join(dir, CONFIG_FILE))
	}
	files = append(files, CONFIG_FILE)

	for _, f := range files {
		add, err := ReadConfig(fs, f)
		if err != nil {
			return nil, err
		}
		if add != nil {
			log.Debug("using config {{file}}", "file", f)
		}
		MergeConfig(&cfg, add)
	}

	if v := getenv("FAKIR_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FAKIR_SEED %q: %w", v, err)
		}
		cfg.Seed = utils.Pointer(seed)
	}
	if v := getenv("FAKIR_ROWS"); v != "" {
		rows, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FAKIR_ROWS %q: %w", v, err)
		}
		cfg.Rows = utils.Pointer(rows)
	}
	if v := getenv("FAKIR_FORMAT"); v != "" {
		cfg.Format = utils.Pointer(v)
	}
	return &cfg, nil
}

// ReadConfig reads a config file. A file which cannot
// be read is ignored.
func ReadConfig(fs vfs.FileSystem, path string) (*Config, error) {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, nil
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return &cfg, nil
}

func MergeConfig(cfg *Config, add *Config) {
	if add == nil {
		return
	}
	if add.Seed != nil {
		cfg.Seed = add.Seed
	}
	if add.Rows != nil {
		cfg.Rows = add.Rows
	}
	if add.Format != nil {
		cfg.Format = add.Format
	}
}
