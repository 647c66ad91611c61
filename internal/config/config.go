/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"chefmenu/internal/kv"
	applog "chefmenu/internal/log"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// A .env file in the working directory and environment variables are read-only overrides.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" | "sqlite" | "memory" | "preferences" (fyne builds)
	DataDir string `yaml:"data_dir"`
	Key     string `yaml:"key"`
	// SerializedWrites funnels all writes through one goroutine.
	SerializedWrites bool `yaml:"serialized_writes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type ExportConfig struct {
	Title    string `yaml:"title"`
	Currency string `yaml:"currency"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Storage       StorageConfig `yaml:"storage"`
	Logging       LoggingConfig `yaml:"logging"`
	Export        ExportConfig  `yaml:"export"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Storage:       StorageConfig{Backend: kv.BackendFile, DataDir: "", Key: "menu_items", SerializedWrites: false},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Export:        ExportConfig{Title: "Our Menu", Currency: "EUR"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile       = "CHEFMENU_CONFIG"
	EnvStorageBackend   = "CHEFMENU_STORAGE_BACKEND"
	EnvDataDir          = "CHEFMENU_DATA_DIR"
	EnvStorageKey       = "CHEFMENU_STORAGE_KEY"
	EnvSerializedWrites = "CHEFMENU_SERIALIZED_WRITES"
	// Logging envs, shared with the log package.
	EnvLogLevel  = applog.EnvLevel
	EnvLogFormat = applog.EnvFormat
	EnvLogSource = applog.EnvSource
	EnvLogFile   = applog.EnvFile
)

// Dir returns the per-user application directory.
func Dir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ChefMenu")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ChefMenu")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "chefmenu")
		} else if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, ".config", "chefmenu")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the config file path; CHEFMENU_CONFIG takes precedence.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads .env (if present), the user config file (if present), applies defaults,
// and merges environment overrides. A malformed config file is reported but the
// defaults plus environment are still returned.
func Load() (AppConfig, error) {
	_ = godotenv.Load()
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	var fileErr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		} else {
			fileErr = fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, fileErr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ResolveDataDir returns the storage directory, defaulting to <Dir>/data.
func (s StorageConfig) ResolveDataDir() (string, error) {
	if d := strings.TrimSpace(s.DataDir); d != "" {
		return d, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

// Options converts the logging section for log.Init.
func (l LoggingConfig) Options() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.ToLower(strings.TrimSpace(src.Storage.Backend)); v != "" {
		dst.Storage.Backend = v
	}
	if v := strings.TrimSpace(src.Storage.DataDir); v != "" {
		dst.Storage.DataDir = v
	}
	if v := strings.TrimSpace(src.Storage.Key); v != "" {
		dst.Storage.Key = v
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Storage.SerializedWrites = src.Storage.SerializedWrites
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	if v := strings.TrimSpace(src.Export.Title); v != "" {
		dst.Export.Title = v
	}
	if v := strings.TrimSpace(src.Export.Currency); v != "" {
		dst.Export.Currency = v
	}
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvStorageBackend)); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorageKey)); v != "" {
		cfg.Storage.Key = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSerializedWrites)); v != "" {
		cfg.Storage.SerializedWrites = truthy(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"storage.backend":           EnvStorageBackend,
	"storage.data_dir":          EnvDataDir,
	"storage.key":               EnvStorageKey,
	"storage.serialized_writes": EnvSerializedWrites,
	"logging.level":             EnvLogLevel,
	"logging.format":            EnvLogFormat,
	"logging.source":            EnvLogSource,
	"logging.file":              EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
