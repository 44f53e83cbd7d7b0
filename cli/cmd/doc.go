// Package cmd implements the ftl subcommands: check, get, vars, ast and
// version.
//
// Commands receive their inputs through [context.Context] values set by the
// cli package: the resource paths ([WithSourceFiles]), the bundle language
// ([WithLanguage]) and, for tests, the output writer ([WithOutput]) and
// standard input ([WithStdin]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file, without extension.
	ConfigIdentifier = "config"
)
