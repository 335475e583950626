package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mchmarny/ucdash/pkg/data"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

const (
	sqlitePrefix = "sqlite:"

	dsnFlagName   = "dsn"
	resetFlagName = "reset"
	yesFlagName   = "yes"
)

func newInitDBCmd() *cli.Command {
	return &cli.Command{
		Name:   "init-db",
		Usage:  "Create the schema and seed the reference use cases into a database",
		Action: cmdInitDB,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  dsnFlagName,
				Usage: "Database to initialize: <file>.db, sqlite:<path> or postgres://... (default: <config>/" + data.DataFileName + ")",
			},
			&cli.BoolFlag{
				Name:  resetFlagName,
				Usage: "Delete the SQLite file first and seed it again",
			},
			&cli.BoolFlag{
				Name:    yesFlagName,
				Aliases: []string{"y"},
				Usage:   "Do not ask for confirmation",
			},
		},
	}
}

func cmdInitDB(_ context.Context, cmd *cli.Command) error {
	app := getConfig(cmd)

	dsn := cmd.String(dsnFlagName)
	if dsn == "" {
		dsn = filepath.Join(app.Dir, data.DataFileName)
	}

	if cmd.Bool(resetFlagName) {
		path, ok := sqlitePath(dsn)
		if !ok {
			return errors.Errorf("reset is only supported for SQLite files: %s", dsn)
		}
		if !cmd.Bool(yesFlagName) && !confirm(app, fmt.Sprintf("This will permanently delete %s", path)) {
			fmt.Fprintln(app.Out, "Aborted.")
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "deleting database")
		}
		slog.Info("database deleted", "path", path)
	}

	if err := data.Init(dsn); err != nil {
		return errors.Wrap(err, "initializing database")
	}

	db, err := data.GetDB(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	state, err := data.GetDataState(db)
	if err != nil {
		return errors.Wrap(err, "reading database state")
	}

	if app.Format != formatTable {
		return encode(app.Out, app.Format, state)
	}

	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(app.Out, "%-16s %d\n", k, state[k])
	}
	return nil
}

func sqlitePath(dsn string) (string, bool) {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, sqlitePrefix):
		return dsn[len(sqlitePrefix):], true
	case strings.HasSuffix(lower, ".db"):
		return dsn, true
	default:
		return "", false
	}
}

func confirm(app *appConfig, msg string) bool {
	fmt.Fprintln(app.Out, msg)
	fmt.Fprint(app.Out, "Are you sure? [y/N]: ")

	answer, err := bufio.NewReader(app.In).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y"
}
