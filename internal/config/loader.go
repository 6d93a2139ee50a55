package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the name of the configuration directory under $HOME.
	ConfigDirName = ".lessonplan"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"
)

// envRef matches ${VAR_NAME} references.
var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

const fileHeader = "# lessonplan configuration\n# ${VAR} references are read from the environment when loaded.\n"

// Loader reads and writes one configuration file.
type Loader struct {
	path string
}

// NewLoader returns a loader for ~/.lessonplan/config.yaml.
func NewLoader() (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &Loader{path: filepath.Join(home, ConfigDirName, ConfigFileName)}, nil
}

// NewLoaderWithPath returns a loader for an explicit file.
func NewLoaderWithPath(path string) *Loader {
	return &Loader{path: path}
}

// ConfigPath returns the configuration file path.
func (l *Loader) ConfigPath() string {
	return l.path
}

// Exists reports whether the configuration file exists.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Load reads the configuration with ${VAR} references resolved. Keys the
// file does not set keep their defaults; a missing file yields the defaults.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.read()
	if err != nil {
		return nil, err
	}
	cfg.expand()
	return cfg, nil
}

// LoadRaw reads the configuration as written, references unresolved. Use it
// when the result is going to be saved back.
func (l *Loader) LoadRaw() (*Config, error) {
	return l.read()
}

func (l *Loader) read() (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", l.path, err)
	}
	return cfg, nil
}

// Save writes cfg, replacing the file in one rename. The file may hold API
// keys and is created readable by the owner only.
func (l *Loader) Save(cfg *Config) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ConfigFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes the default configuration. It refuses to overwrite a file.
func (l *Loader) Init() error {
	if l.Exists() {
		return fmt.Errorf("config file already exists: %s", l.path)
	}
	return l.Save(DefaultConfig())
}

// expand resolves ${VAR} references in the string settings that may carry
// them. Unset variables become empty.
func (c *Config) expand() {
	for name, p := range c.Review.Providers {
		p.APIKey = expandEnvVars(p.APIKey)
		p.Endpoint = expandEnvVars(p.Endpoint)
		p.Model = expandEnvVars(p.Model)
		c.Review.Providers[name] = p
	}
	c.Render.OutputDir = expandEnvVars(c.Render.OutputDir)
	c.Render.Font = expandEnvVars(c.Render.Font)
}

func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool reports whether the variable is set to true, 1 or yes.
func GetEnvBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes":
		return true
	}
	return false
}
