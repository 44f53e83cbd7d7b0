package cli

import (
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/ftl/pkg"
)

// baseConfig is the base name of the configuration files and the top-level
// key of the YAML configuration.
const baseConfig = "config"

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the directory name used under the user configuration
// and cache directories.
//
// It is the base name of the executable unless it matches one of the
// following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with ftl
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		base := filepath.Base(id)
		id = strings.TrimSuffix(base, filepath.Ext(base))

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name,
			regexp.MustCompile(`^\.+`):             "",
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		return id
	},
)

// userDir joins basePrefix to the directory returned by dir, falling back to
// a dot-directory under the home directory and finally the working directory.
func userDir(dir func() (string, error), dot string) string {
	root, err := dir()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			root = filepath.Join(home, dot)
		} else if wd, werr := os.Getwd(); werr == nil {
			root = wd
		} else {
			root = "."
		}
	}

	return filepath.Join(root, basePrefix())
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir returns the cache directory path used for profiles.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath joins the configuration directory with elem.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

func joinSeq(seq iter.Seq[string]) string {
	return strings.Join(slices.Collect(seq), ",")
}
