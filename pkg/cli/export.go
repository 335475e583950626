package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/ucdash/pkg/data"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

const outputFlagName = "output"

func newExportCmd() *cli.Command {
	return &cli.Command{
		Name:   "export",
		Usage:  "Write the current source (or the embedded reference data) as a YAML document",
		Action: cmdExport,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    outputFlagName,
				Aliases: []string{"o"},
				Usage:   "File to write the YAML document to (default: stdout)",
			},
		},
	}
}

func cmdExport(ctx context.Context, cmd *cli.Command) error {
	app := getConfig(cmd)

	src, err := openSource(ctx, app)
	if err != nil {
		return err
	}

	doc, err := loadDocument(ctx, src)
	if err != nil {
		return err
	}

	out := cmd.String(outputFlagName)
	if out == "" {
		return encode(app.Out, formatYAML, doc)
	}

	if err := data.WriteYAML(out, doc); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}
	slog.Info("exported", "path", out, "use_cases", len(doc.UseCases))
	fmt.Fprintf(app.Out, "Use it with: %s --source %s score\n", appName, out)
	return nil
}

func loadDocument(ctx context.Context, src data.Source) (*data.Document, error) {
	plan, err := src.LoadPlan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading plan")
	}
	list, err := src.LoadUseCases(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading use cases")
	}
	return &data.Document{Plan: plan, UseCases: list}, nil
}
