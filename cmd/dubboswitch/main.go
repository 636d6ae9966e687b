// Command dubboswitch moves an application's provider registrations from one
// registry cluster to another, or clears them from a cluster.
//
//	dubboswitch [global flags] switch --from <endpoint> --to <endpoint> --app <name>
//	dubboswitch [global flags] clear --target <endpoint> --app <name>
//	dubboswitch [global flags] list --endpoint <endpoint> --app <name>
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dubbo-switch/codec"
	"dubbo-switch/message"
	"dubbo-switch/middleware"
	"dubbo-switch/registry"
	"dubbo-switch/switcher"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

const usage = `usage: dubboswitch [global flags] <command> [flags]

commands:
  switch --from <endpoint> --to <endpoint> --app <name>   copy an application's providers
  clear  --target <endpoint> --app <name>                 delete an application's providers
  list   --endpoint <endpoint> --app <name>               show what switch or clear would touch

endpoints are host:port lists or cluster names from the --config file.

global flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type globalFlags struct {
	configPath string
	backend    string
	format     string
	writeRate  float64
	dryRun     bool
	verbose    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	var g globalFlags
	fs := gnuflag.NewFlagSet("dubboswitch", gnuflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&g.configPath, "config", "", "TOML configuration file")
	fs.StringVar(&g.backend, "backend", "", "registry backend: zookeeper, etcd or memory")
	fs.StringVar(&g.format, "format", "text", "output format: text, json or yaml")
	fs.Float64Var(&g.writeRate, "write-rate", 0, "maximum registry writes per second, 0 for no limit")
	fs.BoolVar(&g.dryRun, "dry-run", false, "log writes instead of performing them")
	fs.BoolVar(&g.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	// global flags stop at the command name
	if err := fs.Parse(false, args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfiguration(g.configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if g.backend != "" {
		cfg.Backend = g.backend
	}
	if g.writeRate > 0 {
		cfg.WriteRate = g.writeRate
	}
	codecType, err := codec.ParseCodecType(g.format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger := newLogger(g.verbose, stderr)
	defer logger.Sync()

	sw, err := newSwitcher(cfg, g, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cmd := &command{
		cfg:    cfg,
		sw:     sw,
		codec:  codec.GetCodec(codecType),
		stdout: stdout,
		stderr: stderr,
	}
	return cmd.run(fs.Arg(0), fs.Args()[1:])
}

// newDialer is replaced in tests.
var newDialer = registry.NewDialer

func newSwitcher(cfg configuration, g globalFlags, logger *zap.Logger) (*switcher.Switcher, error) {
	dial, err := newDialer(cfg.Backend, registry.DefaultSessionTimeout, logger)
	if err != nil {
		return nil, errors.Trace(err)
	}
	mws := []middleware.Middleware{middleware.LoggingMiddleware(logger)}
	// skipped writes never wait for a rate-limit token
	if g.dryRun {
		mws = append(mws, middleware.DryRunMiddleware(logger))
	}
	mws = append(mws, middleware.RateLimitMiddleware(cfg.WriteRate, cfg.WriteBurst))
	return switcher.New(dial, switcher.WithLogger(logger), switcher.WithMiddleware(mws...)), nil
}

// newLogger writes JSON at info level, or console output at debug level with verbose.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	level := zapcore.InfoLevel
	if verbose {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		level = zapcore.DebugLevel
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

type command struct {
	cfg    configuration
	sw     *switcher.Switcher
	codec  codec.Codec
	stdout io.Writer
	stderr io.Writer
}

func (c *command) run(name string, args []string) int {
	fs := gnuflag.NewFlagSet(name, gnuflag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var from, to, target, endpoint, app string
	fs.StringVar(&app, "app", "", "application name")
	switch name {
	case "switch":
		fs.StringVar(&from, "from", "", "source cluster")
		fs.StringVar(&to, "to", "", "target cluster")
	case "clear":
		fs.StringVar(&target, "target", "", "target cluster")
	case "list":
		fs.StringVar(&endpoint, "endpoint", "", "cluster to inspect")
	default:
		fmt.Fprintf(c.stderr, "unknown command %q\n", name)
		return exitUsage
	}
	if err := fs.Parse(true, args); err != nil {
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(c.stderr, "unexpected arguments %v\n", fs.Args())
		return exitUsage
	}

	var result message.Result
	switch name {
	case "switch":
		if from == "" || to == "" {
			fmt.Fprintln(c.stderr, "switch needs --from and --to")
			return exitUsage
		}
		result = c.sw.SwitchAppProvider(c.cfg.endpoint(from), c.cfg.endpoint(to), app)
	case "clear":
		if target == "" {
			fmt.Fprintln(c.stderr, "clear needs --target")
			return exitUsage
		}
		result = c.sw.ClearAppProvider(c.cfg.endpoint(target), app)
	case "list":
		if endpoint == "" {
			fmt.Fprintln(c.stderr, "list needs --endpoint")
			return exitUsage
		}
		var selection message.Selection
		selection, result = c.sw.ListAppProvider(c.cfg.endpoint(endpoint), app)
		if result.Success {
			if err := c.write(selection); err != nil {
				return exitFail
			}
			if c.codec.Type() != codec.CodecTypeText {
				return exitOK
			}
		}
	}

	if err := c.write(result); err != nil {
		return exitFail
	}
	if !result.Success {
		return exitFail
	}
	return exitOK
}

func (c *command) write(v any) error {
	data, err := c.codec.Encode(v)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return err
	}
	_, err = c.stdout.Write(data)
	return err
}
