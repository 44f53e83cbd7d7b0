package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ftl/bundle"
	"github.com/ardnew/ftl/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	languageKey    struct{}
	sourceFilesKey struct{}
	outputKey      struct{}
	stdinKey       struct{}
)

// defaultLanguage is used when no language was stored in the context.
const defaultLanguage = "en"

// WithLanguage returns a new context.Context containing the language tag
// used to build bundles.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey{}, lang)
}

func languageFrom(ctx context.Context) string {
	if lang, ok := ctx.Value(languageKey{}).(string); ok && lang != "" {
		return lang
	}

	return defaultLanguage
}

// WithOutput returns a new context.Context whose commands write to w instead
// of the standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// WithStdin returns a new context.Context whose "-" source reads from r.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing the resource file
// paths given on the command line, in override order.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, sources)
}

func sourceFilesFrom(ctx context.Context) []string {
	s, _ := ctx.Value(sourceFilesKey{}).([]string)

	return s
}

// loadSources reads the resource files stored in ctx by [WithSourceFiles].
//
// Files are deduplicated by resolving symlinks and comparing device/inode
// pairs; the first occurrence keeps its position. All occurrences of "-"
// are replaced with a single stdin source placed last, so stdin overrides
// every regular file.
func loadSources(ctx context.Context) ([]bundle.Source, error) {
	paths := sourceFilesFrom(ctx)
	if len(paths) == 0 {
		return nil, ErrNoSources
	}

	srcs := make([]bundle.Source, 0, len(paths))
	seen := make(map[fileKey]struct{})

	var hasStdin bool

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		text, ok, err := readUniqueFile(path, seen)
		if err != nil {
			return nil, ErrReadSource.Wrap(err).With(slog.String("source", path))
		}

		if !ok {
			log.DebugContext(ctx, "duplicate source skipped",
				slog.String("source", path))

			continue
		}

		srcs = append(srcs, bundle.Source{Name: path, Text: text})
	}

	if hasStdin {
		data, err := io.ReadAll(stdinFrom(ctx))
		if err != nil {
			return nil, ErrReadSource.Wrap(err).With(slog.String("source", stdinSource))
		}

		srcs = append(srcs, bundle.Source{Name: "<stdin>", Text: string(data)})
	}

	return srcs, nil
}

// readUniqueFile reads the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// It reports false without an error when the file is a duplicate.
func readUniqueFile(path string, seen map[fileKey]struct{}) (string, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return "", false, nil
		}

		seen[key] = struct{}{}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", false, err
	}

	return string(data), true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// buildBundle loads the sources stored in ctx and compiles them into a
// bundle for the stored language.
func buildBundle(ctx context.Context, opts ...bundle.Option) (*bundle.Bundle, map[string]string, error) {
	srcs, err := loadSources(ctx)
	if err != nil {
		return nil, nil, err
	}

	text := make(map[string]string, len(srcs))
	for _, src := range srcs {
		text[src.Name] = src.Text
	}

	opts = append([]bundle.Option{bundle.WithLogger(log.Default())}, opts...)

	b, err := bundle.New(languageFrom(ctx), srcs, opts...)
	if err != nil {
		return nil, text, err
	}

	return b, text, nil
}
