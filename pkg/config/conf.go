package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	DefaultPort = 8080

	EnvSource    = "UCDASH_SOURCE"
	EnvPort      = "UCDASH_PORT"
	EnvAssetsDir = "UCDASH_ASSETS_DIR"
	EnvLogLevel  = "UCDASH_LOG_LEVEL"
	EnvValidate  = "UCDASH_VALIDATE"
)

// Config represents app config object.
type Config struct {
	// Source selects where use cases come from, see data.Open.
	Source string `yaml:"source"`
	// AssetsDir holds the optional milestones image and roadmap deck.
	AssetsDir string `yaml:"assets_dir"`
	Port      int    `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	// Validate range-checks ratings and the plan when loading.
	Validate bool `yaml:"validate"`
}

func getDefaultConfig() *Config {
	return &Config{
		Source:    "embedded",
		AssetsDir: ".",
		Port:      DefaultPort,
		LogLevel:  "info",
	}
}

// Save writes c into dirPath/config.yaml.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		err := os.MkdirAll(dirPath, dirMode)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, getDefaultConfig()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	j, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening config file: %s", path)
	}
	defer j.Close()

	b, err := io.ReadAll(j)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file %s", path)
	}

	c := getDefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file %s", path)
	}
	return c, nil
}

// Load reads the config from dirPath, then applies a .env file from the
// working directory (if any) and UCDASH_* environment overrides.
func Load(dirPath string) (*Config, error) {
	c, err := ReadOrCreate(dirPath)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("error loading .env file", "error", err)
	}

	if err := ApplyEnv(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides c with UCDASH_* environment variables.
func ApplyEnv(c *Config) error {
	if c == nil {
		return errors.New("config required")
	}
	envOverride(&c.Source, EnvSource)
	envOverride(&c.AssetsDir, EnvAssetsDir)
	envOverride(&c.LogLevel, EnvLogLevel)

	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s: %s", EnvPort, v)
		}
		c.Port = p
	}

	if v := strings.TrimSpace(os.Getenv(EnvValidate)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s: %s", EnvValidate, v)
		}
		c.Validate = b
	}
	return nil
}

func envOverride(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

// GetOrCreateHomeDir returns the home directory for the current user.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		err := os.Mkdir(dir, dirMode)
		if err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
