package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/hotswap-labs/hotswap/internal/branding"
	"github.com/hotswap-labs/hotswap/internal/module"
	"github.com/hotswap-labs/hotswap/internal/substitute"
)

// Setting keys.
const (
	KeyFrontend     = "frontend"
	KeyPackagesDir  = "packages_dir"
	KeyTemplateDir  = "template_dir"
	KeyContentGlobs = "content_globs"
	KeyPHPBin       = "php_bin"
	KeyComposerBin  = "composer_bin"
	KeyDumpAutoload = "dump_autoload"
)

// Keys lists every recognised setting in display order.
var Keys = []string{
	KeyFrontend,
	KeyPackagesDir,
	KeyTemplateDir,
	KeyContentGlobs,
	KeyPHPBin,
	KeyComposerBin,
	KeyDumpAutoload,
}

// DotEnvFile is the project's dotenv file, where the front-end choice is
// recorded for the host application to read.
const DotEnvFile = ".env"

// ErrUnknownKey is returned for keys outside Keys.
var ErrUnknownKey = errors.New("unknown setting")

// Settings is the resolved configuration for one project.
type Settings struct {
	Frontend     string   `mapstructure:"frontend"`
	PackagesDir  string   `mapstructure:"packages_dir"`
	TemplateDir  string   `mapstructure:"template_dir"`
	ContentGlobs []string `mapstructure:"content_globs"`
	PHPBin       string   `mapstructure:"php_bin"`
	ComposerBin  string   `mapstructure:"composer_bin"`
	DumpAutoload bool     `mapstructure:"dump_autoload"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Settings {
	return Settings{
		PackagesDir:  module.DefaultPackagesDir,
		ContentGlobs: substitute.DefaultContentGlobs,
		PHPBin:       "php",
		ComposerBin:  "composer",
		DumpAutoload: true,
	}
}

// Layout returns the module layout for these settings.
func (s Settings) Layout() module.Layout { return module.NewLayout(s.PackagesDir) }

// Store reads and writes one project's settings.
type Store struct {
	projectDir string
	path       string
	v          *viper.Viper
}

// FilePath returns the settings file location for a project.
func FilePath(projectDir string) string {
	return filepath.Join(projectDir, branding.SettingsFile())
}

// Load resolves settings for the project at projectDir. A missing settings
// file is fine; an invalid one is an *InvalidError.
func Load(projectDir string) (*Store, error) {
	s := &Store{projectDir: projectDir, path: FilePath(projectDir)}

	d := Defaults()
	v := viper.New()
	v.SetDefault(KeyFrontend, d.Frontend)
	v.SetDefault(KeyPackagesDir, d.PackagesDir)
	v.SetDefault(KeyTemplateDir, d.TemplateDir)
	v.SetDefault(KeyContentGlobs, d.ContentGlobs)
	v.SetDefault(KeyPHPBin, d.PHPBin)
	v.SetDefault(KeyComposerBin, d.ComposerBin)
	v.SetDefault(KeyDumpAutoload, d.DumpAutoload)

	if fe, err := dotEnvFrontend(projectDir); err != nil {
		return nil, err
	} else if fe != "" {
		v.SetDefault(KeyFrontend, fe)
	}

	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	if data, err := os.ReadFile(s.path); err == nil {
		if err := checkFile(s.path, data); err != nil {
			return nil, err
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	s.v = v
	return s, nil
}

// dotEnvFrontend reads HOTSWAP_ENV from the project's .env, if any.
func dotEnvFrontend(projectDir string) (string, error) {
	path := filepath.Join(projectDir, DotEnvFile)
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return env.GetString(branding.EnvVar("env")), nil
}

func checkFile(path string, data []byte) error {
	issues, err := Validate(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(issues) > 0 {
		return &InvalidError{File: path, Issues: issues}
	}
	return nil
}

// Path returns the settings file this store writes to.
func (s *Store) Path() string { return s.path }

// Settings returns the resolved settings.
func (s *Store) Settings() (Settings, error) {
	var out Settings
	if err := s.v.Unmarshal(&out); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if out.Frontend != "" && !slices.Contains([]string{"react", "vue"}, out.Frontend) {
		return Settings{}, fmt.Errorf("frontend %q: must be react or vue", out.Frontend)
	}
	return out, nil
}

// Get returns the resolved value of key as a string.
func (s *Store) Get(key string) (string, error) {
	if !slices.Contains(Keys, key) {
		return "", fmt.Errorf("%w %q (known: %s)", ErrUnknownKey, key, strings.Join(Keys, ", "))
	}
	if key == KeyContentGlobs {
		return strings.Join(s.v.GetStringSlice(key), ","), nil
	}
	return s.v.GetString(key), nil
}

// Set writes key to the settings file. Only values already in the file and
// the new one are written; defaults and environment values are not copied
// in. The file is validated before it is written.
func (s *Store) Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("%w %q (known: %s)", ErrUnknownKey, key, strings.Join(Keys, ", "))
	}

	file := viper.New()
	file.SetConfigFile(s.path)
	file.SetConfigType("yaml")
	if _, err := os.Stat(s.path); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", s.path, err)
		}
	}

	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}
	file.Set(key, typed)

	data, err := yaml.Marshal(file.AllSettings())
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := checkFile(s.path, data); err != nil {
		return err
	}
	if err := file.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}

	s.v.Set(key, typed)
	return nil
}

func parseValue(key, value string) (any, error) {
	switch key {
	case KeyDumpAutoload:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a boolean", key, value)
		}
		return b, nil
	case KeyContentGlobs:
		var globs []string
		for _, g := range strings.Split(value, ",") {
			if g = strings.TrimSpace(g); g != "" {
				globs = append(globs, g)
			}
		}
		return globs, nil
	default:
		return value, nil
	}
}
