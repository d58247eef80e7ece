// Package config loads the capability-initialization record and deployment
// tunables. Layering follows defaults < config file < environment, with all
// sources merged through koanf.
package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	modvfserr "github.com/modvfs/modvfs/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// ConfigFileName is the optional override file searched in the working
// directory and in MODVFS_CONFIG_DIR.
const ConfigFileName = "modvfs.toml"

// EnvPrefix is the prefix for environment overrides, e.g.
// MODVFS_VFS_LOG_LEVEL=debug.
const EnvPrefix = "MODVFS_"

// VFSConfig is the static capability-initialization record handed to the VFS
// engine once at startup.
type VFSConfig struct {
	LogLevel      string `koanf:"log_level"`
	InstanceName  string `koanf:"instance_name"`
	DebugMode     bool   `koanf:"debug_mode"`
	CrashDumpPath string `koanf:"crash_dump_path"`
	CrashDumpType string `koanf:"crash_dump_type"`
}

// DeployConfig holds deployment-cycle tunables.
type DeployConfig struct {
	SettleDelayMS int `koanf:"settle_delay_ms"`
}

// SettleDelay returns the settle delay as a duration.
func (d DeployConfig) SettleDelay() time.Duration {
	return time.Duration(d.SettleDelayMS) * time.Millisecond
}

// LaunchConfig holds launch-interception tunables.
type LaunchConfig struct {
	TrampolineRoot string `koanf:"trampoline_root"`
}

// Config is the root configuration.
type Config struct {
	VFS    VFSConfig    `koanf:"vfs"`
	Deploy DeployConfig `koanf:"deploy"`
	Launch LaunchConfig `koanf:"launch"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load builds the effective configuration. A missing config file is not an
// error; a malformed one is.
func Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, modvfserr.Wrap(err, modvfserr.ErrConfigLoad, "failed to load built-in defaults")
	}

	// 2. Optional config file
	for _, dir := range configDirs() {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, modvfserr.Wrapf(err, modvfserr.ErrConfigParse, "failed to parse %s", path)
			}
			break
		}
	}

	// 3. Environment overrides: MODVFS_VFS_INSTANCE_NAME -> vfs.instance_name
	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, modvfserr.Wrap(err, modvfserr.ErrConfigLoad, "failed to load env vars")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, modvfserr.Wrap(err, modvfserr.ErrConfigParse, "failed to unmarshal config")
	}
	return &cfg, nil
}

// envKeyMapper converts MODVFS_VFS_LOG_LEVEL to vfs.log_level. Only the first
// underscore becomes a separator; the rest belong to the key.
func envKeyMapper(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(s, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}

func configDirs() []string {
	dirs := []string{"."}
	if dir := os.Getenv("MODVFS_CONFIG_DIR"); dir != "" {
		dirs = append([]string{dir}, dirs...)
	}
	return dirs
}
