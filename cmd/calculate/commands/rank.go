package commands

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/calculate/internal/calc"
	"github.com/Sumatoshi-tech/calculate/internal/input"
	"github.com/Sumatoshi-tech/calculate/internal/render"
	"github.com/Sumatoshi-tech/calculate/pkg/safeconv"
)

type rankFlags struct {
	field     string
	direction string
	expr      string
	where     string
	label     string
}

func newRankCommand(global *globalFlags) *cobra.Command {
	flags := &rankFlags{}

	cmd := &cobra.Command{
		Use:   "rank <file|->",
		Short: "Rank records by a field",
		Long: `Rank every record of a document by one field.

Each row reports the ordinal rank (1, 2, 3, 4), the competition rank that
shares positions between ties (1, 2, 2, 4), the percentile and the decile.

--expr computes the ranked field with a CEL expression over each record and
--where drops records whose CEL predicate is false, for example:

  calculate rank people.json --field score --expr 'wins * 3 + draws' --where 'active'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, global, "cli.rank", func(_ context.Context, rt *runtime) error {
				return runRank(cmd, rt, args[0], flags)
			})
		},
	}

	cmd.Flags().StringVarP(&flags.field, "field", "f", "", "Field to rank by (default from config)")
	cmd.Flags().StringVarP(&flags.direction, "direction", "d", "", "Sort direction: asc or desc (default from config)")
	cmd.Flags().StringVar(&flags.expr, "expr", "", "CEL expression computing the ranked field")
	cmd.Flags().StringVar(&flags.where, "where", "", "CEL predicate selecting the records to rank")
	cmd.Flags().StringVarP(&flags.label, "label", "l", "", "Field shown next to each rank")

	return cmd
}

func runRank(cmd *cobra.Command, rt *runtime, path string, flags *rankFlags) error {
	req := calc.RankRequest{
		Field:     rt.cfg.Rank.Field,
		Direction: rt.cfg.Rank.Direction,
		Expr:      flags.expr,
		Where:     flags.where,
		Label:     flags.label,
	}

	if flags.field != "" {
		req.Field = flags.field
	}

	if flags.direction != "" {
		req.Direction = flags.direction
	}

	doc, err := input.Load(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	// A computed field does not exist in the document itself.
	required := []string{req.Field}
	if req.Expr != "" {
		required = nil
	}

	if req.Label != "" {
		required = append(required, req.Label)
	}

	if err = input.ValidateRecords(doc.Items, required...); err != nil {
		return err
	}

	rows, err := calc.Rank(doc.Items, req)
	if err != nil {
		return err
	}

	rt.red.RecordRecords(cmd.Context(), "cli.rank", len(rows))
	rt.providers.Logger.DebugContext(cmd.Context(), "ranked records",
		"source", doc.Label, "field", req.Field, "records", len(rows))

	return rt.write(cmd, rankReport(req.Field, rows))
}

func rankReport(field string, rows []calc.RankRow) render.Report {
	rep := render.Report{
		Title:  "Rank by " + field,
		Header: []string{"Rank", "Competition", "Percentile", "Decile", "Label", field, "Index"},
		Rows:   make([][]any, len(rows)),
		Data:   rows,
	}

	chart := &render.Chart{SeriesName: field}

	for i, row := range rows {
		rep.Rows[i] = []any{row.Ordinal, row.Competition, row.Percentile, row.Decile, row.Label, row.Value, row.Index}

		v, ok := safeconv.ToFloat64(row.Value)
		if !ok {
			// Only numeric columns chart.
			chart = nil

			continue
		}

		if chart != nil {
			chart.Labels = append(chart.Labels, chartLabel(row))
			chart.Values = append(chart.Values, v)
		}
	}

	rep.Chart = chart

	return rep
}

func chartLabel(row calc.RankRow) string {
	if row.Label != "" {
		return row.Label
	}

	return "#" + strconv.Itoa(row.Index)
}
