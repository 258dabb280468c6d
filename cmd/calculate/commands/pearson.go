package commands

import (
	"context"
	"math"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/calculate/internal/calc"
	"github.com/Sumatoshi-tech/calculate/internal/input"
	"github.com/Sumatoshi-tech/calculate/internal/render"
)

func newPearsonCommand(global *globalFlags) *cobra.Command {
	var xField, yField string

	cmd := &cobra.Command{
		Use:   "pearson <file|->",
		Short: "Correlate two numeric fields",
		Long: `Compute the Pearson correlation coefficient between two fields of every record.

A column without variance has no defined coefficient and reports n/a.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, global, "cli.pearson", func(_ context.Context, rt *runtime) error {
				doc, err := input.Load(args[0], cmd.InOrStdin())
				if err != nil {
					return err
				}

				if err = input.ValidateRecords(doc.Items, xField, yField); err != nil {
					return err
				}

				corr, err := calc.Pearson(doc.Items, xField, yField)
				if err != nil {
					return err
				}

				rt.red.RecordRecords(cmd.Context(), "cli.pearson", corr.N)

				return rt.write(cmd, pearsonReport(corr))
			})
		},
	}

	cmd.Flags().StringVarP(&xField, "x", "x", "", "First field")
	cmd.Flags().StringVarP(&yField, "y", "y", "", "Second field")

	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func pearsonReport(corr calc.Correlation) render.Report {
	var data any = corr

	// NaN has no JSON encoding.
	if math.IsNaN(corr.Coefficient) {
		data = map[string]any{"x": corr.X, "y": corr.Y, "n": corr.N, "coefficient": nil}
	}

	return render.Report{
		Title:  "Pearson " + corr.X + " ~ " + corr.Y,
		Header: []string{"X", "Y", "N", "Coefficient"},
		Rows:   [][]any{{corr.X, corr.Y, corr.N, corr.Coefficient}},
		Data:   data,
	}
}
