package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ftl/cli/cmd"
	"github.com/ardnew/ftl/pkg"
)

// CLI is the top-level command-line interface for ftl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Lang   string   `default:"en" help:"Language tag of the resources."                                  short:"l"`
	Source []string `             help:"Resource file(s); later files override earlier ones. '-' is stdin." short:"s" name:"source" type:"existingfile"`

	Check   cmd.Check   `cmd:"" default:"1" help:"Report syntax and validation errors."`
	Get     cmd.Get     `cmd:""             help:"Format a message."`
	Vars    cmd.Vars    `cmd:""             help:"List the variables a message requires."`
	AST     cmd.AST     `cmd:""             help:"Dump the syntax tree of a resource file." name:"ast"`
	Version cmd.Version `cmd:""             help:"Print the version."`
}

// Run executes the ftl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that parse errors are already reported
	// with the requested level and format.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithLanguage(ctx, cli.Lang)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
