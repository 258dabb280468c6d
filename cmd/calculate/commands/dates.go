package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/calculate/internal/render"
	"github.com/Sumatoshi-tech/calculate/pkg/dates"
)

const dateLayout = time.DateOnly

type dayRow struct {
	Date     string   `json:"date"               yaml:"date"`
	Weekday  string   `json:"weekday"            yaml:"weekday"`
	DaysIn   int      `json:"days_in_month"      yaml:"days_in_month"`
	Adjusted *float64 `json:"adjusted,omitempty" yaml:"adjusted,omitempty"`
}

func newDatesCommand(global *globalFlags) *cobra.Command {
	var value float64

	cmd := &cobra.Command{
		Use:   "dates <start> <end>",
		Short: "List the days between two dates",
		Long: `List every day from start to end inclusive (YYYY-MM-DD).

With --value each day also shows that monthly amount normalized to a
30-day month: value * 30 / days in the day's month.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse(dateLayout, args[0])
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}

			end, err := time.Parse(dateLayout, args[1])
			if err != nil {
				return fmt.Errorf("end: %w", err)
			}

			adjust := cmd.Flags().Changed("value")

			return execute(cmd, global, "cli.dates", func(_ context.Context, rt *runtime) error {
				days, err := dates.Range(start, end)
				if err != nil {
					return err
				}

				var rows []dayRow

				for day := range days {
					row := dayRow{
						Date:    day.Format(dateLayout),
						Weekday: day.Weekday().String(),
						DaysIn:  dates.DaysIn(day),
					}

					if adjust {
						adjusted := dates.AdjustedMonthlyValue(value, day)
						row.Adjusted = &adjusted
					}

					rows = append(rows, row)
				}

				rt.red.RecordRecords(cmd.Context(), "cli.dates", len(rows))

				return rt.write(cmd, datesReport(rows, adjust))
			})
		},
	}

	cmd.Flags().Float64Var(&value, "value", 0, "Monthly value to normalize to a 30-day month")

	return cmd
}

func datesReport(rows []dayRow, adjust bool) render.Report {
	rep := render.Report{
		Title:  "Days",
		Header: []string{"Date", "Weekday", "Days in month"},
		Rows:   make([][]any, len(rows)),
		Footer: fmt.Sprintf("%d days", len(rows)),
		Data:   rows,
	}

	if adjust {
		rep.Header = append(rep.Header, "Adjusted")
		rep.Chart = &render.Chart{SeriesName: "adjusted"}
	}

	for i, row := range rows {
		rep.Rows[i] = []any{row.Date, row.Weekday, row.DaysIn}

		if row.Adjusted != nil {
			rep.Rows[i] = append(rep.Rows[i], *row.Adjusted)
			rep.Chart.Labels = append(rep.Chart.Labels, row.Date)
			rep.Chart.Values = append(rep.Chart.Values, *row.Adjusted)
		}
	}

	return rep
}
