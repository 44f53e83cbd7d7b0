// Package cli contains the command line interface for ftl.
//
// # Usage
//
// Resource files are given with --source, in override order, and the
// subcommand selects what to do with the resulting bundle:
//
//	ftl -s base.ftl -s app.ftl check
//	ftl -s app.ftl get emails count=3
//	ftl -s app.ftl vars emails
//	ftl ast app.ftl
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (e.g., ~/.config/ftl). The YAML file holds its
// flags under a top-level "config" key:
//
//	config:
//	  lang: en-US
//	  log_level: info
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o ftl .
//
//   - --pprof-mode: Enable profiling (cpu, heap, allocs, ...)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/ftl/pprof)
package cli
