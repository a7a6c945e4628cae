// Package config loads router connection settings from defaults, routeros.yaml,
// ROUTEROS_* environment variables and command line flags, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nanoncore/nano-routeros/types"
)

const (
	appName   = "nano-routeros"
	fileName  = "routeros"
	envPrefix = "routeros"
)

// Config is the persisted settings file.
type Config struct {
	Host          string        `mapstructure:"host" yaml:"host"`
	Port          int           `mapstructure:"port" yaml:"port,omitempty"`
	Username      string        `mapstructure:"username" yaml:"username"`
	Password      string        `mapstructure:"password" yaml:"password"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Transport     string        `mapstructure:"transport" yaml:"transport"`
	SNMPCommunity string        `mapstructure:"snmp_community" yaml:"snmp_community,omitempty"`
	LogLevel      string        `mapstructure:"log_level" yaml:"log_level"`
	Language      string        `mapstructure:"language" yaml:"language"`
	UnknownLabel  string        `mapstructure:"unknown_label" yaml:"unknown_label,omitempty"`
}

// Defaults returns the baseline values every key starts from.
func Defaults() map[string]any {
	return map[string]any{
		"host":           "",
		"port":           0,
		"username":       "admin",
		"password":       "",
		"timeout":        types.DefaultTimeout.String(),
		"transport":      string(types.ProtocolAPI),
		"snmp_community": "public",
		"log_level":      "info",
		"language":       "en",
		"unknown_label":  "",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), appName)
		default:
			configDir = filepath.Join("/etc", appName)
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(dir, appName)
	}

	return filepath.Join(configDir, fileName+".yaml"), nil
}

// LoadConfig merges defaults, the first routeros.yaml found (or path when
// given), the environment and cmd's flags into a T.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, path string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a malformed one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, fmt.Errorf("reading config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

// Load is LoadConfig for Config with Defaults.
func Load(cmd *cobra.Command, path string) (Config, error) {
	return LoadConfig[Config](cmd, Defaults(), path)
}

// WriteConfigFile writes c as YAML to the user (or system) config path and returns the path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file holds the router password.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// Validate checks the settings needed to reach a router.
func (c *Config) Validate() error {
	switch types.Protocol(c.Transport) {
	case types.ProtocolAPI, types.ProtocolAPISSL, types.ProtocolSSH, types.ProtocolSNMP:
		if c.Host == "" {
			return types.ValidationError("config", "host is required")
		}
	case types.ProtocolMock:
	default:
		return types.ValidationError("config", "unsupported transport %q", c.Transport)
	}
	if c.Port < 0 || c.Port > 65535 {
		return types.ValidationError("config", "port %d out of range", c.Port)
	}
	if c.Timeout < 0 {
		return types.ValidationError("config", "timeout must not be negative")
	}
	return nil
}

// Device builds the connection settings for the configured router.
func (c *Config) Device() *types.DeviceConfig {
	dev := &types.DeviceConfig{
		Name:     c.Host,
		Address:  c.Host,
		Port:     c.Port,
		Protocol: types.Protocol(c.Transport),
		Username: c.Username,
		Password: c.Password,
		Timeout:  c.Timeout,
		Metadata: map[string]string{},
	}
	if dev.Protocol == types.ProtocolMock && dev.Address == "" {
		dev.Address = "mock"
	}
	if dev.Protocol == types.ProtocolAPISSL {
		dev.TLSEnabled = true
	}
	if c.SNMPCommunity != "" {
		dev.Metadata["snmp_community"] = c.SNMPCommunity
	}
	return dev
}

// Keys lists the settings accepted by Set, in file order.
var Keys = []string{"host", "port", "username", "password", "timeout", "transport", "snmp_community", "log_level", "language", "unknown_label"}

// Set updates one setting from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "host":
		c.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return types.ValidationError("config", "port %q is not a number", value)
		}
		if port < 0 || port > 65535 {
			return types.ValidationError("config", "port %d out of range", port)
		}
		c.Port = port
	case "username":
		c.Username = value
	case "password":
		c.Password = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return types.ValidationError("config", "timeout %q: %v", value, err)
		}
		c.Timeout = d
	case "transport":
		switch types.Protocol(value) {
		case types.ProtocolAPI, types.ProtocolAPISSL, types.ProtocolSSH, types.ProtocolSNMP, types.ProtocolMock:
		default:
			return types.ValidationError("config", "unsupported transport %q", value)
		}
		c.Transport = value
	case "snmp_community":
		c.SNMPCommunity = value
	case "log_level":
		c.LogLevel = value
	case "language":
		c.Language = value
	case "unknown_label":
		c.UnknownLabel = value
	default:
		return types.ValidationError("config", "unknown key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "********"
	}
	return c
}
