package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/calculate/internal/render"
	"github.com/Sumatoshi-tech/calculate/pkg/stats"
)

func newBenfordCommand(global *globalFlags) *cobra.Command {
	var (
		field  string
		method string
	)

	cmd := &cobra.Command{
		Use:   "benford <file|->",
		Short: "Test a numeric column against Benford's law",
		Long: `Compare the digit distribution of a numeric column with Benford's law.

first_digit tallies leading digits 1-9 against log10(1 + 1/d); last_digit
tallies trailing digits 0-9 against a uniform distribution. The footer shows
the Pearson correlation between observed and expected shares.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dm, err := stats.ParseDigitMethod(method)
			if err != nil {
				return err
			}

			return execute(cmd, global, "cli.benford", func(_ context.Context, rt *runtime) error {
				values, err := loadColumn(cmd, args[0], field)
				if err != nil {
					return err
				}

				res, err := stats.BenfordReport(values, dm)
				if err != nil {
					return err
				}

				rt.red.RecordRecords(cmd.Context(), "cli.benford", res.Counted)

				return rt.write(cmd, benfordReport(res))
			})
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "", "Record field to test")
	cmd.Flags().StringVarP(&method, "method", "m", string(stats.FirstDigit), "Digit method: first_digit or last_digit")

	return cmd
}

func benfordReport(res stats.BenfordResult) render.Report {
	rep := render.Report{
		Title:  "Benford " + string(res.Method),
		Header: []string{"Digit", "Count", "Observed", "Expected"},
		Rows:   make([][]any, len(res.Rows)),
		Footer: fmt.Sprintf("correlation %s over %s values", render.Cell(res.Correlation), render.Cell(res.Counted)),
		Data:   res,
		Chart:  &render.Chart{SeriesName: "observed"},
	}

	for i, row := range res.Rows {
		rep.Rows[i] = []any{row.Digit, row.Count, row.Observed, row.Expected}
		rep.Chart.Labels = append(rep.Chart.Labels, strconv.Itoa(row.Digit))
		rep.Chart.Values = append(rep.Chart.Values, row.Observed)
	}

	return rep
}
