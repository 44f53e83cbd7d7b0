package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ftl/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults from
// the mapping stored under key name of a YAML document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config.yaml")
//
// Flag names with hyphens (e.g., "log-level") may be spelled with
// underscores in the file (e.g., "log_level"):
//
//	config:
//	  lang: de
//	  log_level: debug
//	  log-format: json
//	  source:
//	    - base.ftl
//	    - app.ftl
//
// Command-line flags override config file values. A file that cannot be
// decoded is logged and otherwise ignored.
func resolve(ctx context.Context, name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		section, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		cfg := make(config, len(section))
		for key, value := range section {
			cfg[key] = flagValue(value)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for a decoded YAML mapping.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flagValue converts a decoded YAML value into a form kong can parse.
// Kong decodes numbers from strings only.
func flagValue(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	default:
		return value
	}
}
