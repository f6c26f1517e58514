// Package tqconf loads Tinqer-Go's ambient configuration (parse cache
// capacity, default dialect, log level, connection settings) through a
// flag -> env -> file precedence chain, built on spf13/viper.
package tqconf

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Source loads configuration into v, reporting whether it found
// anything to load.
type Source interface {
	Load(v *viper.Viper) (bool, error)
}

// FlagSource reads a config file path from a command-line flag.
type FlagSource struct {
	FlagName string
	Default  string
}

func (s *FlagSource) Load(v *viper.Viper) (bool, error) {
	flagSet := flag.NewFlagSet(s.FlagName, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	configPath := flagSet.String(s.FlagName, s.Default, "path to Tinqer-Go config file")
	_ = flagSet.Parse(os.Args[1:])

	path := *configPath
	if path == "" {
		return false, nil
	}
	loaded, err := loadFileIfExists(v, path, detectType(path))
	if err != nil {
		return false, fmt.Errorf("tqconf: loading config from flag %s (path %s): %w", s.FlagName, path, err)
	}
	return loaded, nil
}

// EnvSource reads a config file path from an environment variable.
type EnvSource struct {
	EnvVar string
}

func (s *EnvSource) Load(v *viper.Viper) (bool, error) {
	path := os.Getenv(s.EnvVar)
	if path == "" {
		return false, nil
	}
	loaded, err := loadFileIfExists(v, path, detectType(path))
	if err != nil {
		return false, fmt.Errorf("tqconf: loading config from env %s (path %s): %w", s.EnvVar, path, err)
	}
	return loaded, nil
}

// FileSource points directly at a config file.
type FileSource struct {
	Path string
	Type string
}

func (s *FileSource) Load(v *viper.Viper) (bool, error) {
	typ := s.Type
	if typ == "" {
		typ = detectType(s.Path)
	}
	loaded, err := loadFileIfExists(v, s.Path, typ)
	if err != nil {
		return false, fmt.Errorf("tqconf: loading config file %s: %w", s.Path, err)
	}
	return loaded, nil
}

// Option configures a Loader built by LoadConfig.
type Option func(*loader)

type loader struct {
	flagSources []Source
	envSources  []Source
	fileSources []Source

	defaultFlagName string
	defaultEnvVar   string
	defaultFilePath string
}

func newLoader() *loader {
	return &loader{
		defaultFlagName: "config",
		defaultEnvVar:   "TINQER_CONFIG",
		defaultFilePath: "tinqer.yml",
	}
}

// WithFlag adds a flag-backed config path source.
func WithFlag(flagName, defaultPath string) Option {
	return func(l *loader) {
		l.flagSources = append(l.flagSources, &FlagSource{FlagName: flagName, Default: defaultPath})
	}
}

// WithEnv adds an env-var-backed config path source.
func WithEnv(envVar string) Option {
	return func(l *loader) {
		l.envSources = append(l.envSources, &EnvSource{EnvVar: envVar})
	}
}

// WithFile adds a direct config file path.
func WithFile(path string) Option {
	return func(l *loader) {
		l.fileSources = append(l.fileSources, &FileSource{Path: path})
	}
}

var loadMu sync.Mutex

// LoadConfig resolves configuration into a fresh T, trying flag sources
// first, then env sources, then file sources, in that order, falling
// back to the package defaults (flag "config", env TINQER_CONFIG, file
// tinqer.yml) if the caller supplied no Options at all.
func LoadConfig[T any](opts ...Option) (*T, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	l := newLoader()
	for _, opt := range opts {
		opt(l)
	}
	if len(l.flagSources) == 0 && len(l.envSources) == 0 && len(l.fileSources) == 0 {
		WithFlag(l.defaultFlagName, "")(l)
		WithEnv(l.defaultEnvVar)(l)
		WithFile(l.defaultFilePath)(l)
	}

	v := viper.New()
	loaded := false
	var loadErr error

	for _, chain := range [][]Source{l.flagSources, l.envSources, l.fileSources} {
		for _, src := range chain {
			ok, err := src.Load(v)
			if err != nil {
				loadErr = err
				continue
			}
			if ok {
				loaded = true
			}
		}
		if loaded {
			break
		}
	}

	if !loaded {
		if loadErr != nil {
			return nil, loadErr
		}
		return nil, fmt.Errorf("tqconf: no valid configuration found")
	}

	v.AutomaticEnv()
	var config T
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("tqconf: unmarshalling config: %w", err)
	}
	return &config, nil
}

func detectType(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "yaml"
	}
}

func loadFileIfExists(v *viper.Viper, path, typ string) (bool, error) {
	path = absPath(path)
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return false, nil
	}
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType(typ)
	if err := vp.ReadInConfig(); err != nil {
		return false, err
	}
	return true, v.MergeConfigMap(vp.AllSettings())
}

func absPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(cwd, path)
}
