package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/ucdash/pkg/auth"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

const deleteFlagName = "delete"

func newAuthCmd() *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Store the bearer token sent to remote (https) sources, read from stdin",
		Action: cmdAuth,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  deleteFlagName,
				Usage: "Remove the stored token",
			},
		},
	}
}

func cmdAuth(_ context.Context, cmd *cli.Command) error {
	app := getConfig(cmd)
	store := &auth.TokenStore{Dir: app.Dir}

	if cmd.Bool(deleteFlagName) {
		if err := store.Delete(); err != nil {
			return errors.Wrap(err, "deleting token")
		}
		fmt.Fprintln(app.Out, "Token removed.")
		return nil
	}

	fmt.Fprint(app.Out, "Paste token and hit enter: ")
	token, err := bufio.NewReader(app.In).ReadString('\n')
	if err != nil && token == "" {
		return errors.Wrap(err, "reading token")
	}

	if err := store.Save(token); err != nil {
		return errors.Wrap(err, "saving token")
	}
	slog.Debug("token saved")
	fmt.Fprintln(app.Out, "Token saved.")
	return nil
}
