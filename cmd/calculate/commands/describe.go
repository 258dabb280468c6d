package commands

import (
	"cmp"
	"context"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/calculate/internal/calc"
	"github.com/Sumatoshi-tech/calculate/internal/input"
	"github.com/Sumatoshi-tech/calculate/internal/render"
	"github.com/Sumatoshi-tech/calculate/pkg/stats"
)

func newDescribeCommand(global *globalFlags) *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "describe <file|->",
		Short: "Summarize a numeric column",
		Long: `Print count, sum, mean, median, mode, standard deviations and range.

With --field the document is an array of records; without it the document is
an array of numbers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, global, "cli.describe", func(_ context.Context, rt *runtime) error {
				values, err := loadColumn(cmd, args[0], field)
				if err != nil {
					return err
				}

				rt.red.RecordRecords(cmd.Context(), "cli.describe", len(values))

				return rt.write(cmd, describeReport(field, stats.Describe(values)))
			})
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "", "Record field to summarize")

	return cmd
}

// loadColumn reads one numeric column from the document at path.
func loadColumn(cmd *cobra.Command, path, field string) ([]float64, error) {
	doc, err := input.Load(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	if field == "" {
		err = input.ValidateNumbers(doc.Items)
	} else {
		err = input.ValidateRecords(doc.Items, field)
	}

	if err != nil {
		return nil, err
	}

	if len(doc.Items) == 0 {
		return nil, calc.ErrNoRecords
	}

	return calc.Column(doc.Items, field)
}

func describeReport(field string, s stats.Summary) render.Report {
	title := "Summary"
	if field != "" {
		title += " of " + field
	}

	var mode any
	if s.Mode != nil {
		mode = *s.Mode
	}

	rep := render.Report{
		Title:  title,
		Header: []string{"Statistic", "Value"},
		Rows: [][]any{
			{"count", s.Count},
			{"sum", s.Sum},
			{"mean", s.Mean},
			{"median", s.Median},
			{"mode", mode},
			{"stddev", s.StdDev},
			{"sample stddev", s.SampleStdDev},
			{"min", s.Min},
			{"max", s.Max},
		},
		Data: s,
		Chart: &render.Chart{
			SeriesName: cmp.Or(field, "value"),
			Labels:     []string{"min", "median", "mean", "max"},
			Values:     []float64{s.Min, s.Median, s.Mean, s.Max},
		},
	}

	return rep
}
