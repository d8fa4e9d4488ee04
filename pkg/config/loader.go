package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variables overriding settings
const EnvPrefix = "HATCH_"

// ProjectConfigFiles are looked up, in order, in the project root
var ProjectConfigFiles = []string{"hatch.toml", ".hatch.toml"}

// LoadOptions controls where settings are read from
type LoadOptions struct {
	// ProjectRoot is searched for hatch.toml / .hatch.toml
	ProjectRoot string
	// UserConfig is the per-user config file; skipped when it does not exist
	UserConfig string
	// File is an explicit config file; it must exist when set
	File string
}

// LoadSettings merges the embedded defaults, the user config file, the
// project config file, an explicit file and HATCH_ environment variables,
// then validates the result.
func LoadSettings(opts LoadOptions) (*Settings, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	if opts.UserConfig != "" {
		if err := loadOptionalFile(k, opts.UserConfig); err != nil {
			return nil, err
		}
	}

	if opts.ProjectRoot != "" {
		for _, filename := range ProjectConfigFiles {
			path := filepath.Join(opts.ProjectRoot, filename)
			if _, err := os.Stat(path); err == nil {
				if err := loadFile(k, path); err != nil {
					return nil, err
				}
				logger.Debug().Str("path", path).Msg("Loaded project config")
				break
			}
		}
	}

	if opts.File != "" {
		if err := loadFile(k, opts.File); err != nil {
			return nil, err
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.TrimPrefix(s, EnvPrefix)
		// HATCH_CTX_* belongs to the context, HATCH_CONFIG names a file
		if strings.HasPrefix(key, "CTX_") || key == "CONFIG" || key == "TEMPLATE_CACHE" {
			return ""
		}
		return strings.ReplaceAll(strings.ToLower(key), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("variants", s.VariantNames()).
		Str("backend", s.VCS.Backend).
		Msg("Settings loaded")

	return &s, nil
}

// DefaultSettings returns the settings built from the embedded defaults only
func DefaultSettings() (*Settings, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	var s Settings
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal defaults")
	}
	return &s, nil
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat config %s", path).
			WithDetail("path", path)
	}
	return loadFile(k, path)
}

func loadFile(k *koanf.Koanf, path string) error {
	parser, err := parserFor(path)
	if err != nil {
		return err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}
