package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mchmarny/ucdash/pkg/auth"
	"github.com/mchmarny/ucdash/pkg/config"
	"github.com/mchmarny/ucdash/pkg/data"
	"github.com/mchmarny/ucdash/pkg/logging"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "ucdash"
	appConfigKey = "app-config"

	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"

	debugFlagName     = "debug"
	configDirFlagName = "config"
	sourceFlagName    = "source"
	formatFlagName    = "format"
	validateFlagName  = "validate"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	if err := newApp(os.Stdout, os.Stdin).Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	*config.Config
	Dir    string
	Debug  bool
	Format string
	Source data.Source
	Out    io.Writer
	In     io.Reader
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp(out io.Writer, in io.Reader) *cli.Command {
	return &cli.Command{
		Writer:                out,
		Reader:                in,
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Use case prioritization and investment allocation dashboard",
		Metadata:              map[string]any{},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlagName,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&cli.StringFlag{
				Name:  configDirFlagName,
				Usage: "Directory holding config.yaml (default: $HOME/.ucdash)",
			},
			&cli.StringFlag{
				Name:    sourceFlagName,
				Aliases: []string{"s"},
				Usage:   "Use case source: embedded, <file>.yaml, <file>.db, sqlite:<path>, postgres://..., https://...",
			},
			&cli.StringFlag{
				Name:  formatFlagName,
				Usage: "Output format [json, yaml, table]",
				Value: formatTable,
			},
			&cli.BoolFlag{
				Name:  validateFlagName,
				Usage: "Reject ratings outside 1-5, duplicate names and invalid plans when loading",
			},
		},
		Commands: []*cli.Command{
			newScoreCmd(),
			newReconcileCmd(),
			newExportCmd(),
			newInitDBCmd(),
			newResourcesCmd(),
			newAuthCmd(),
			newServerCmd(),
		},
		Before: before,
		After:  after,
	}
}

func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	dir := cmd.String(configDirFlagName)
	if dir == "" {
		d, _, err := config.GetOrCreateHomeDir(appName)
		if err != nil {
			slog.Debug("error getting home dir, using current dir instead", "error", err)
			d = "."
		}
		dir = d
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return ctx, errors.Wrap(err, "loading config")
	}

	if cmd.IsSet(sourceFlagName) {
		cfg.Source = cmd.String(sourceFlagName)
	}
	if cmd.IsSet(validateFlagName) {
		cfg.Validate = cmd.Bool(validateFlagName)
	}

	format, err := parseFormat(cmd.String(formatFlagName))
	if err != nil {
		return ctx, err
	}

	debug := cmd.Bool(debugFlagName)
	if debug {
		cfg.LogLevel = "debug"
	}
	logging.SetDefaultCLILogger(cfg.LogLevel)

	app := &appConfig{
		Config: cfg,
		Dir:    dir,
		Debug:  debug,
		Format: format,
		Out:    cmd.Root().Writer,
		In:     cmd.Root().Reader,
	}
	cmd.Metadata[appConfigKey] = app
	slog.Debug("config loaded", "dir", dir, "source", cfg.Source, "validate", cfg.Validate)

	return ctx, nil
}

func after(_ context.Context, cmd *cli.Command) error {
	app, ok := cmd.Metadata[appConfigKey].(*appConfig)
	if !ok || app.Source == nil {
		return nil
	}
	if err := data.Close(app.Source); err != nil {
		slog.Debug("error closing source", "error", err)
	}
	return nil
}

// openSource opens the configured source on first use.
func openSource(ctx context.Context, app *appConfig) (data.Source, error) {
	if app.Source != nil {
		return app.Source, nil
	}

	store := &auth.TokenStore{Dir: app.Dir}
	token, err := store.Load()
	if err != nil && !errors.Is(err, auth.ErrNoToken) {
		slog.Debug("error loading source token", "error", err)
	}

	src, err := data.Open(ctx, app.Config.Source, data.Options{
		Token:    token,
		Validate: app.Config.Validate,
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening source")
	}
	app.Source = src
	return src, nil
}

func parseFormat(f string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	case formatTable, "":
		return formatTable, nil
	default:
		return "", errors.Errorf("unsupported format %q, expected one of: json, yaml, table", f)
	}
}

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		return yaml.NewEncoder(w).Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
