// Config loading for the larder CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/larderhq/larder/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix        = "LARDER"
	envConfigDir     = "LARDER_CONFIG_DIR"
	defaultConfigDir = ".larder"

	cfgKeyBackend = "backend"
	cfgKeyDataDir = "data_dir"
	cfgKeyDBPath  = "db_path"
	cfgKeyAddr    = "addr"

	defaultBackend = types.BackendMemory
	defaultAddr    = ":8080"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Larder configuration

# Backend selection: memory | fs | sql
backend: memory

# Filesystem backend root (required when backend is fs)
# data_dir: ./larder-data

# SQLite database file (required when backend is sql)
# db_path: ./larder.db

# HTTP listen address
addr: :8080
`

// resolveConfigDir returns the config directory from flag, env, or default.
func resolveConfigDir() string {
	if flagConfigDir != "" {
		return flagConfigDir
	}
	if v := os.Getenv(envConfigDir); v != "" {
		return v
	}
	return defaultConfigDir
}

// loadConfig reads config.yaml from the given directory using Viper and
// returns the resulting backend configuration. It creates the directory and
// a default config.yaml on first run; a missing config.yaml is not an
// error. LARDER_* environment variables override file values.
func loadConfig(configDir string) (types.Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyAddr, defaultAddr)
	// Empty defaults register the keys so Unmarshal sees env-only values.
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyDBPath, "")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
		// Missing config.yaml is not an error; defaults apply.
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
