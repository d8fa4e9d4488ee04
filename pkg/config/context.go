package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// ContextEnvPrefix is the prefix for environment variables carrying context values
const ContextEnvPrefix = "HATCH_CTX_"

var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_.]*)\}`)

// Context is the immutable set of template answers. The zero value is an
// empty context.
type Context struct {
	values map[string]string
}

// NewContext builds a context from a copy of values
func NewContext(values map[string]string) Context {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Context{values: copied}
}

// Get returns the value for key and whether it was set
func (c Context) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// String returns the value for key, or "" when unset
func (c Context) String(key string) string {
	return c.values[key]
}

// Bool interprets the value for key as a boolean. Unset and empty values
// are false; anything ParseBool rejects is an INVALID_INPUT error.
func (c Context) Bool(key string) (bool, error) {
	b, err := ParseBool(c.values[key])
	if err != nil {
		return false, errors.Newf(errors.ErrInvalidInput, "%s must be a boolean, got %q", key, c.values[key]).
			WithDetail("key", key)
	}
	return b, nil
}

// Keys returns the context keys, sorted
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the underlying values
func (c Context) Map() map[string]string {
	return NewContext(c.values).values
}

// With returns a copy of the context with key set to value
func (c Context) With(key, value string) Context {
	next := NewContext(c.values)
	next.values[key] = value
	return next
}

// Expand replaces every ${key} in s with its context value. Unknown keys
// expand to the empty string; use MissingKeys to detect them.
func (c Context) Expand(s string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		return c.values[key]
	})
}

// MissingKeys lists the ${key} references in s that the context does not
// define or defines as empty.
func (c Context) MissingKeys(s string) []string {
	var missing []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		if c.values[m[1]] == "" {
			missing = append(missing, m[1])
		}
	}
	return missing
}

// ParseBool accepts the spellings templating engines produce for booleans
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off", "":
		return false, nil
	}
	return strconv.ParseBool(strings.ToLower(strings.TrimSpace(s)))
}

// ContextOptions controls where context values are read from
type ContextOptions struct {
	// Defaults are the lowest-precedence values, usually Settings.Context
	Defaults map[string]string
	// File is a TOML or YAML answers file
	File string
	// DotEnv is loaded into the process environment before reading
	// HATCH_CTX_ variables; a missing file is skipped
	DotEnv string
	// Sets are key=value pairs with the highest precedence
	Sets []string
}

// LoadContext builds the context from defaults, the answers file,
// HATCH_CTX_ environment variables and --set pairs.
func LoadContext(opts ContextOptions) (Context, error) {
	k := koanf.New(".")

	defaults := make(map[string]interface{}, len(opts.Defaults))
	for key, v := range opts.Defaults {
		defaults[key] = v
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Context{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load context defaults")
	}

	if opts.File != "" {
		if err := loadFile(k, opts.File); err != nil {
			return Context{}, err
		}
	}

	if opts.DotEnv != "" {
		if _, err := os.Stat(opts.DotEnv); err == nil {
			if err := godotenv.Load(opts.DotEnv); err != nil {
				return Context{}, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to load %s", opts.DotEnv).WithDetail("path", opts.DotEnv)
			}
		}
	}

	err := k.Load(env.Provider(ContextEnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, ContextEnvPrefix))
	}), nil)
	if err != nil {
		return Context{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load context from environment")
	}

	if len(opts.Sets) > 0 {
		sets := make(map[string]interface{}, len(opts.Sets))
		for _, pair := range opts.Sets {
			key, value, ok := strings.Cut(pair, "=")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				return Context{}, errors.Newf(errors.ErrInvalidInput,
					"invalid --set value %q, expected key=value", pair)
			}
			sets[key] = value
		}
		if err := k.Load(confmap.Provider(sets, "."), nil); err != nil {
			return Context{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load --set values")
		}
	}

	values := make(map[string]string, len(k.Keys()))
	for _, key := range k.Keys() {
		values[key] = stringify(k.Get(key))
	}
	return NewContext(values), nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []interface{}:
		parts := make([]string, len(t))
		for i, p := range t {
			parts[i] = stringify(p)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad,
			"unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path)).
			WithDetail("path", path)
	}
}
