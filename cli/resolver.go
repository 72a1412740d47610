package cli

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/spyview/log"
)

// resolve is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Top-level keys name flags. Underscores and hyphens are interchangeable,
// and nested mappings join their keys with a hyphen, so these are
// equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// A file that does not parse is ignored with a warning. Command-line flags
// override file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Warn("ignoring configuration file", slog.String("error", err.Error()))

		return config{}, nil
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over flattened, hyphenated keys.
type config map[string]any

func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(name, v)

		// kong's mappers parse numbers from strings.
		case int:
			c[name] = strconv.Itoa(v)
		case int64:
			c[name] = strconv.FormatInt(v, 10)
		case uint64:
			c[name] = strconv.FormatUint(v, 10)
		case float64:
			c[name] = strconv.FormatFloat(v, 'f', -1, 64)

		default:
			c[name] = v
		}
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A nil value lets kong use the flag's
// default.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}
