package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/calculate/internal/calc"
	"github.com/Sumatoshi-tech/calculate/pkg/stats"
)

// Tool name constants.
const (
	ToolNameRank     = "calculate_rank"
	ToolNameDescribe = "calculate_describe"
	ToolNamePearson  = "calculate_pearson"
)

// MaxRecords bounds the records or values accepted by one tool call.
const MaxRecords = 100_000

// Sentinel errors for tool input validation.
var (
	// ErrNoInput indicates neither values nor records were given.
	ErrNoInput = errors.New("values or records are required")
	// ErrAmbiguousInput indicates both values and records were given.
	ErrAmbiguousInput = errors.New("give either values or records, not both")
	// ErrFieldRequired indicates records were given without a field.
	ErrFieldRequired = errors.New("field is required with records")
	// ErrTooManyRecords indicates the input exceeds MaxRecords.
	ErrTooManyRecords = errors.New("too many records")
	// ErrUndefinedCorrelation indicates a list with zero variance.
	ErrUndefinedCorrelation = errors.New("correlation is undefined when a list has zero variance")
)

// Input types (auto-generate JSON schemas via struct tags).

// RankInput is the input schema for the calculate_rank tool.
type RankInput struct {
	Records   []map[string]any `json:"records"             jsonschema:"records to rank; each is an object of named fields"`
	Field     string           `json:"field,omitempty"     jsonschema:"field to rank by (default: value)"`
	Direction string           `json:"direction,omitempty" jsonschema:"asc or desc (default: desc, highest value ranks first)"`
	Expr      string           `json:"expr,omitempty"      jsonschema:"optional CEL expression over 'record' computing the ranked field"`
	Where     string           `json:"where,omitempty"     jsonschema:"optional CEL predicate over 'record'; non-matching records are dropped"`
	Label     string           `json:"label,omitempty"     jsonschema:"optional field copied into each result row"`
}

// DescribeInput is the input schema for the calculate_describe tool.
type DescribeInput struct {
	Values  []float64        `json:"values,omitempty"  jsonschema:"numbers to summarize"`
	Records []map[string]any `json:"records,omitempty" jsonschema:"records to read the field from"`
	Field   string           `json:"field,omitempty"   jsonschema:"numeric field read from each record"`
}

// PearsonInput is the input schema for the calculate_pearson tool.
type PearsonInput struct {
	X []float64 `json:"x" jsonschema:"first list of numbers"`
	Y []float64 `json:"y" jsonschema:"second list of numbers, same length as x"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// PearsonOutput is the calculate_pearson result.
type PearsonOutput struct {
	N           int     `json:"n"`
	Coefficient float64 `json:"coefficient"`
}

func handleRank(_ context.Context, _ *mcpsdk.CallToolRequest, in RankInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if len(in.Records) > MaxRecords {
		return errorResult(fmt.Errorf("%w: %d (max %d)", ErrTooManyRecords, len(in.Records), MaxRecords))
	}

	rows, err := calc.Rank(asItems(in.Records), calc.RankRequest{
		Field:     in.Field,
		Direction: in.Direction,
		Expr:      in.Expr,
		Where:     in.Where,
		Label:     in.Label,
	})
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(rows)
}

func handleDescribe(_ context.Context, _ *mcpsdk.CallToolRequest, in DescribeInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	values, err := describeValues(in)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(stats.Describe(values))
}

func describeValues(in DescribeInput) ([]float64, error) {
	switch {
	case len(in.Values) > 0 && len(in.Records) > 0:
		return nil, ErrAmbiguousInput
	case len(in.Values) > MaxRecords || len(in.Records) > MaxRecords:
		return nil, fmt.Errorf("%w: max %d", ErrTooManyRecords, MaxRecords)
	case len(in.Values) > 0:
		return in.Values, nil
	case len(in.Records) > 0:
		if in.Field == "" {
			return nil, ErrFieldRequired
		}

		return calc.Column(asItems(in.Records), in.Field)
	default:
		return nil, ErrNoInput
	}
}

func handlePearson(_ context.Context, _ *mcpsdk.CallToolRequest, in PearsonInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	r, err := stats.Pearson(in.X, in.Y)
	if err != nil {
		return errorResult(err)
	}

	if math.IsNaN(r) {
		return errorResult(ErrUndefinedCorrelation)
	}

	return jsonResult(PearsonOutput{N: len(in.X), Coefficient: r})
}

func asItems(records []map[string]any) []any {
	items := make([]any, len(records))
	for i, rec := range records {
		items[i] = rec
	}

	return items
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
