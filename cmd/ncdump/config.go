package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds ncdump's optional persistent settings, loaded from a TOML
// file named by the --config flag; everything in it has a usable zero
// value, so running without a config file at all is normal.
type Config struct {
	// DefaultPrecision bounds how many significant digits ncdump prints
	// for F32/F64 attribute and variable values. Zero means "default".
	DefaultPrecision int `toml:"default_precision"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
