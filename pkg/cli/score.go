package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/ucdash/pkg/score"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

const categoryFlagName = "category"

func newScoreCmd() *cli.Command {
	return &cli.Command{
		Name:   "score",
		Usage:  "Score and categorize use cases",
		Action: cmdScore,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    categoryFlagName,
				Aliases: []string{"c"},
				Usage:   "Only show these categories [High, Medium, Low] (default: all)",
			},
		},
	}
}

type scoreResult struct {
	UseCases []score.Scored         `json:"use_cases" yaml:"use_cases"`
	Counts   map[score.Category]int `json:"counts" yaml:"counts"`
	Budget   float64                `json:"budget" yaml:"budget"`
}

func cmdScore(ctx context.Context, cmd *cli.Command) error {
	app := getConfig(cmd)

	cats, err := score.ParseCategories(cmd.StringSlice(categoryFlagName))
	if err != nil {
		return errors.Wrap(err, "parsing category filter")
	}

	src, err := openSource(ctx, app)
	if err != nil {
		return err
	}

	list, err := src.LoadUseCases(ctx)
	if err != nil {
		return errors.Wrap(err, "loading use cases")
	}

	all := score.Score(list)
	filtered := score.SortByTotal(score.Filter(all, cats...))
	slog.Debug("scored use cases", "total", len(all), "shown", len(filtered))

	if app.Format != formatTable {
		return encode(app.Out, app.Format, &scoreResult{
			UseCases: filtered,
			Counts:   score.CountByCategory(all),
			Budget:   score.SumBudget(all),
		})
	}

	counts := score.CountByCategory(all)
	fmt.Fprintln(app.Out, renderScores(filtered))
	fmt.Fprintf(app.Out, "High: %d  Medium: %d  Low: %d  Use-case budget: $%.2fB\n",
		counts[score.High], counts[score.Medium], counts[score.Low], score.SumBudget(all))
	return nil
}
