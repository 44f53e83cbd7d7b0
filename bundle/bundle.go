package bundle

import (
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/ftl/log"
	"github.com/ardnew/ftl/syntax"
)

// Defaults for the resolver limits. Users may modify these before calling
// [New] to change the defaults.
var (
	DefaultMaxDepth      = syntax.DefaultMaxDepth
	DefaultMaxPlaceables = 100
)

// Source is one named resource text. The name only appears in diagnostics.
type Source struct {
	Name string
	Text string
}

// Option configures a [Bundle].
type Option func(*config)

type config struct {
	strict        bool
	validate      bool
	plurals       PluralRules
	functions     map[string]Function
	maxDepth      int
	maxPlaceables int
	logger        log.Logger
}

// WithStrict makes [New] fail on the first syntax or validation error
// instead of recording it.
func WithStrict(strict bool) Option {
	return func(c *config) { c.strict = strict }
}

// WithValidation controls whether the merged bundle is validated.
// Validation is enabled by default; disabling it keeps only syntax
// diagnostics.
func WithValidation(validate bool) Option {
	return func(c *config) { c.validate = validate }
}

// WithPluralRules replaces the plural-category collaborator.
func WithPluralRules(rules PluralRules) Option {
	return func(c *config) {
		if rules != nil {
			c.plurals = rules
		}
	}
}

// WithFunction registers fn under name, replacing any builtin of the same
// name.
func WithFunction(name string, fn Function) Option {
	return func(c *config) {
		if fn == nil {
			delete(c.functions, name)

			return
		}

		c.functions[name] = fn
	}
}

// WithMaxDepth bounds placeable nesting in the parser and reference nesting
// in the resolver.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithMaxPlaceables bounds the number of placeables resolved by one call to
// [Bundle.Format].
func WithMaxPlaceables(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxPlaceables = n
		}
	}
}

// WithLogger sets the logger for construction and formatting diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func makeConfig(opts ...Option) config {
	c := config{
		validate:      true,
		plurals:       &CLDRPlurals{},
		functions:     builtinFunctions(),
		maxDepth:      DefaultMaxDepth,
		maxPlaceables: DefaultMaxPlaceables,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// Bundle is the merged, validated set of messages and terms for one
// language. A Bundle is immutable once [New] returns and is safe for
// concurrent use.
type Bundle struct {
	lang string
	cfg  config

	// entries holds messages by id and terms by "-id".
	entries map[string]syntax.Entry
	// origin maps each entry key to the name of the source that defined it.
	origin map[string]string
	// messageIDs is the sorted list of message identifiers.
	messageIDs []string

	parseErrors      []*syntax.ParseError
	validationErrors []*ValidationError
}

// New parses sources in order and merges their entries into one bundle.
// An identifier defined by a later source replaces the earlier definition.
// Malformed entries never enter the bundle.
//
// Without [WithStrict], New always succeeds and diagnostics are available
// from [Bundle.CompileErrors]. In strict mode the first diagnostic is
// returned wrapped in [ErrStrictParse] or [ErrStrictValidation].
func New(lang string, sources []Source, opts ...Option) (*Bundle, error) {
	cfg := makeConfig(opts...)

	b := &Bundle{
		lang:    lang,
		cfg:     cfg,
		entries: make(map[string]syntax.Entry),
		origin:  make(map[string]string),
	}

	resources := make([]*syntax.Resource, 0, len(sources))

	for _, src := range sources {
		res, errs := syntax.Parse(src.Name, src.Text,
			syntax.WithMaxDepth(cfg.maxDepth),
			syntax.WithLogger(cfg.logger))

		if cfg.strict && len(errs) > 0 {
			return nil, ErrStrictParse.Wrap(errs[0]).
				With(slog.String("source", src.Name))
		}

		b.parseErrors = append(b.parseErrors, errs...)
		resources = append(resources, res)

		b.merge(res)
	}

	for key, e := range b.entries {
		if _, ok := e.(*syntax.Message); ok {
			b.messageIDs = append(b.messageIDs, key)
		}
	}

	slices.Sort(b.messageIDs)

	if cfg.validate {
		b.validationErrors = validate(b, resources)

		if cfg.strict && len(b.validationErrors) > 0 {
			first := b.validationErrors[0]

			return nil, ErrStrictValidation.Wrap(first).
				With(slog.String("source", first.Source))
		}
	}

	cfg.logger.Debug("bundle created",
		slog.String("lang", lang),
		slog.Int("sources", len(sources)),
		slog.Int("messages", len(b.messageIDs)),
		slog.Int("terms", len(b.entries)-len(b.messageIDs)),
		slog.Int("parse_errors", len(b.parseErrors)),
		slog.Int("validation_errors", len(b.validationErrors)))

	return b, nil
}

// merge inserts the messages and terms of res, replacing existing keys.
func (b *Bundle) merge(res *syntax.Resource) {
	for _, e := range res.Body {
		key, ok := entryKey(e)
		if !ok {
			continue
		}

		if prev, exists := b.origin[key]; exists && prev != res.Name {
			b.cfg.logger.Trace("entry overridden",
				slog.String("id", key),
				slog.String("previous", prev),
				slog.String("source", res.Name))
		}

		b.entries[key] = e
		b.origin[key] = res.Name
	}
}

// entryKey returns the bundle key of a message or term.
func entryKey(e syntax.Entry) (string, bool) {
	switch e := e.(type) {
	case *syntax.Message:
		return e.ID.Name, true
	case *syntax.Term:
		return syntax.TermSigil + e.ID.Name, true
	default:
		return "", false
	}
}

func (b *Bundle) message(id string) (*syntax.Message, bool) {
	m, ok := b.entries[id].(*syntax.Message)

	return m, ok
}

func (b *Bundle) term(id string) (*syntax.Term, bool) {
	t, ok := b.entries[syntax.TermSigil+id].(*syntax.Term)

	return t, ok
}

// Language returns the language tag given to [New].
func (b *Bundle) Language() string { return b.lang }

// HasMessage reports whether a message with the given identifier exists.
func (b *Bundle) HasMessage(id string) bool {
	_, ok := b.message(id)

	return ok
}

// Messages returns the message identifiers in sorted order.
func (b *Bundle) Messages() iter.Seq[string] {
	return slices.Values(b.messageIDs)
}

// Source returns the name of the source that defined the message or term
// (given with its "-" sigil).
func (b *Bundle) Source(id string) (string, bool) {
	name, ok := b.origin[id]

	return name, ok
}

// ParseErrors returns the syntax errors of all sources in source order.
func (b *Bundle) ParseErrors() []*syntax.ParseError {
	return slices.Clone(b.parseErrors)
}

// ValidationErrors returns the semantic errors of the merged bundle.
func (b *Bundle) ValidationErrors() []*ValidationError {
	return slices.Clone(b.validationErrors)
}

// CompileErrors returns all load-time diagnostics: syntax errors first in
// source order, then validation errors.
func (b *Bundle) CompileErrors() []CompileError {
	out := make([]CompileError, 0, len(b.parseErrors)+len(b.validationErrors))

	for _, e := range b.parseErrors {
		out = append(out, CompileError{Source: e.Source, Err: e})
	}

	for _, e := range b.validationErrors {
		out = append(out, CompileError{Source: e.Source, Err: e})
	}

	return out
}

// Functions returns the names of the registered functions in sorted order.
func (b *Bundle) Functions() []string {
	return slices.Sorted(maps.Keys(b.cfg.functions))
}
