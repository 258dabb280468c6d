package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/calculate/internal/calc"
	"github.com/Sumatoshi-tech/calculate/internal/input"
	"github.com/Sumatoshi-tech/calculate/internal/render"
	"github.com/Sumatoshi-tech/calculate/pkg/geo"
	"github.com/Sumatoshi-tech/calculate/pkg/record"
)

type centerResult struct {
	Center geo.Point   `json:"center"           yaml:"center"`
	WKT    string      `json:"wkt"              yaml:"wkt"`
	Points []geo.Point `json:"points,omitempty" yaml:"points,omitempty"`
}

func newCenterCommand(global *globalFlags) *cobra.Command {
	var (
		field  string
		radius float64
	)

	cmd := &cobra.Command{
		Use:   "center <file|->",
		Short: "Compute the mean center of point locations",
		Long: `Average the locations stored in one field of every record.

A location is a WKT "POINT (x y)" string, an [x, y] pair or an object with x
and y fields. With --nudge, records sharing a location are also listed spread
on a circle of that radius so they stay distinguishable on a map.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, global, "cli.center", func(_ context.Context, rt *runtime) error {
				doc, err := input.Load(args[0], cmd.InOrStdin())
				if err != nil {
					return err
				}

				if err = input.ValidateRecords(doc.Items, field); err != nil {
					return err
				}

				if len(doc.Items) == 0 {
					return calc.ErrNoRecords
				}

				center, err := geo.MeanCenter(doc.Items, field)
				if err != nil {
					return err
				}

				res := centerResult{Center: center, WKT: center.WKT()}

				if radius > 0 {
					points, err := pointsOf(doc.Items, field)
					if err != nil {
						return err
					}

					res.Points = geo.Nudge(points, radius)
				}

				rt.red.RecordRecords(cmd.Context(), "cli.center", len(doc.Items))

				return rt.write(cmd, centerReport(field, res))
			})
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "location", "Field holding each record's location")
	cmd.Flags().Float64Var(&radius, "nudge", 0, "Spread coincident points on a circle of this radius")

	return cmd
}

func pointsOf(items []any, field string) ([]geo.Point, error) {
	points := make([]geo.Point, len(items))

	for i, item := range items {
		raw, err := record.Get(item, field)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		if points[i], err = geo.PointOf(raw); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	return points, nil
}

func centerReport(field string, res centerResult) render.Report {
	rep := render.Report{
		Title:  "Mean center of " + field,
		Header: []string{"Point", "X", "Y", "WKT"},
		Rows:   [][]any{{"center", res.Center.X, res.Center.Y, res.WKT}},
		Data:   res,
	}

	for i, p := range res.Points {
		rep.Rows = append(rep.Rows, []any{fmt.Sprintf("#%d", i), p.X, p.Y, p.WKT()})
	}

	return rep
}
