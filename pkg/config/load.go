package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"

	"github.com/autobrr/otherfile/pkg/logger"
)

const EnvPrefix = "OTHERFILE_"

// ErrGlobalKey is returned for project files setting a key that is shared by
// every root or needed before the root is known.
var ErrGlobalKey = errors.New("key cannot be set in a project file")

var globalKeys = []string{
	"root_markers",
	"max_search_depth",
	"cache_enabled",
	"cache_capacity",
	"ignore_dirs",
	"project_file",
}

var (
	// Config exported for use
	Config *Configuration
	// K exported for use
	K = koanf.New(".")

	log = logger.GetLogger("config")
)

/* Public */

// Init loads the configuration and publishes it as Config and K.
func Init(configFilePath string) error {
	k, cfg, err := Load(configFilePath)
	if err != nil {
		return err
	}

	K = k
	Config = cfg
	return nil
}

// Load resolves defaults, the config file (when present) and OTHERFILE_
// environment variables. Each layer replaces whole top-level keys of the
// layers below it.
func Load(configFilePath string) (*koanf.Koanf, *Configuration, error) {
	raw := Defaults()

	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err == nil {
			layer, err := fileLayer(configFilePath)
			if err != nil {
				return nil, nil, err
			}
			replaceKeys(raw, layer)
			log.Debugf("Loaded config file: %s", configFilePath)
		} else if !os.IsNotExist(err) {
			return nil, nil, errors.Wrapf(err, "stat config file %s", configFilePath)
		} else {
			log.Debugf("Config file not found, using defaults: %s", configFilePath)
		}
	}

	envLayer := koanf.New(".")
	if err := envLayer.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, nil, errors.Wrap(err, "load environment")
	}
	replaceKeys(raw, envLayer.Raw())

	return build(raw)
}

// LoadOverride returns base with every top-level key present in the file at
// path replaced by the file's value. Only lookup keys (extensions, patterns,
// exclude) may be overridden; any global key fails with ErrGlobalKey.
func LoadOverride(base *Configuration, path string) (*Configuration, error) {
	layer, err := fileLayer(path)
	if err != nil {
		return nil, err
	}

	var rejected []string
	for _, key := range globalKeys {
		if _, ok := layer[key]; ok {
			rejected = append(rejected, key)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return nil, errors.Wrapf(ErrGlobalKey, "project override %s: %s", path, strings.Join(rejected, ", "))
	}

	raw := make(map[string]interface{}, len(base.raw))
	for key, value := range base.raw {
		raw[key] = value
	}
	replaceKeys(raw, layer)

	_, cfg, err := build(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "project override %s", path)
	}
	return cfg, nil
}

// DefaultConfigDirectory prefers the working directory when it already holds
// filename, and the user config directory otherwise.
func DefaultConfigDirectory(project string, filename string) string {
	if cwd, err := os.Getwd(); err == nil {
		if _, err := os.Stat(filepath.Join(cwd, filename)); err == nil {
			return cwd
		}
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, project)
	}

	return "."
}

/* Private */

func fileLayer(path string) (map[string]interface{}, error) {
	layer := koanf.New(".")
	if err := layer.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "load config file %s", path)
	}
	return layer.Raw(), nil
}

func replaceKeys(dst, src map[string]interface{}) {
	for key, value := range src {
		dst[key] = value
	}
}

func build(raw map[string]interface{}) (*koanf.Koanf, *Configuration, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(raw, ""), nil); err != nil {
		return nil, nil, errors.Wrap(err, "load layers")
	}

	cfg := &Configuration{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, nil, errors.Wrap(err, "unmarshal config")
	}

	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}

	cfg.raw = k.Raw()
	return k, cfg, nil
}
