package cli

import (
	"context"
	"fmt"

	"github.com/mchmarny/ucdash/pkg/alloc"
	"github.com/mchmarny/ucdash/pkg/data"
	"github.com/mchmarny/ucdash/pkg/score"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

const strictFlagName = "strict"

var errBudgetMismatch = errors.New("use case budgets do not reconcile with the plan")

func newReconcileCmd() *cli.Command {
	return &cli.Command{
		Name:   "reconcile",
		Usage:  "Check that use case budgets add up to the planned allocation",
		Action: cmdReconcile,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  strictFlagName,
				Usage: "Exit with an error when budgets do not match bucket B",
			},
		},
	}
}

type reconcileResult struct {
	Plan          *alloc.Plan           `json:"plan" yaml:"plan"`
	BucketA       float64               `json:"bucket_a" yaml:"bucket_a"`
	BucketB       float64               `json:"bucket_b" yaml:"bucket_b"`
	UseCases      *alloc.Reconciliation `json:"use_cases" yaml:"use_cases"`
	SubAllocation *alloc.Reconciliation `json:"sub_allocation" yaml:"sub_allocation"`
}

func cmdReconcile(ctx context.Context, cmd *cli.Command) error {
	app := getConfig(cmd)

	src, err := openSource(ctx, app)
	if err != nil {
		return err
	}

	res, err := reconcile(ctx, src)
	if err != nil {
		return err
	}

	if app.Format != formatTable {
		if err := encode(app.Out, app.Format, res); err != nil {
			return errors.Wrap(err, "encoding reconciliation")
		}
	} else {
		fmt.Fprintf(app.Out, "Total: $%.2fB  A: $%.2fB  B: $%.2fB\n", res.Plan.Total, res.BucketA, res.BucketB)
		fmt.Fprintln(app.Out, renderReconciliation(res.UseCases))
		fmt.Fprintln(app.Out, renderReconciliation(res.SubAllocation))
	}

	if cmd.Bool(strictFlagName) && !res.UseCases.Matched() {
		return errors.Wrapf(errBudgetMismatch, "observed $%.2fB, expected $%.2fB",
			res.UseCases.ObservedSum, res.UseCases.Expected)
	}
	return nil
}

func reconcile(ctx context.Context, src data.Source) (*reconcileResult, error) {
	plan, err := src.LoadPlan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading plan")
	}
	if plan == nil {
		return nil, alloc.ErrNoPlan
	}
	list, err := src.LoadUseCases(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading use cases")
	}

	return &reconcileResult{
		Plan:          plan,
		BucketA:       plan.BucketA(),
		BucketB:       plan.BucketB(),
		UseCases:      alloc.Reconcile(plan, score.Budgets(score.Score(list))),
		SubAllocation: alloc.ReconcileSubAllocation(plan),
	}, nil
}
