// Package mcp implements a Model Context Protocol server exposing the
// calculate operations as tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/calculate/internal/observability"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "calculate"

	// toolCount is the expected number of registered tools.
	toolCount = 3

	// mcpOpPrefix prefixes span names and metric ops for tool calls.
	mcpOpPrefix = "mcp."
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Version is reported to clients. Empty means "dev".
	Version string

	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with the calculate tool registrations.
type Server struct {
	inner   *mcpsdk.Server
	logger  *slog.Logger
	mu      sync.RWMutex
	tools   []string
	metrics *observability.REDMetrics
	tracer  trace.Tracer
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{
		inner:   inner,
		logger:  logger,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run serves on stdio until the context is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves on transport until the context is canceled or the
// connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	s.logger.InfoContext(ctx, "mcp server starting", "tools", s.ListToolNames())

	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	addTool(s, ToolNameRank, rankToolDescription, handleRank)
	addTool(s, ToolNameDescribe, describeToolDescription, handleDescribe)
	addTool(s, ToolNamePearson, pearsonToolDescription, handlePearson)
}

type toolHandler[In any] func(context.Context, *mcpsdk.CallToolRequest, In) (*mcpsdk.CallToolResult, ToolOutput, error)

func addTool[In any](s *Server, name, description string, handler toolHandler[In]) {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: description,
	}, mcpsdk.ToolHandlerFor[In, ToolOutput](withLogging(s.logger, name, withMetrics(s.metrics, name, withTracing(s.tracer, name, handler)))))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// traceIDMetaKey is the key trace ids are reported under in tool results.
const traceIDMetaKey = "trace_id"

// withTracing wraps a tool handler in a span and appends the trace id to
// the result when the span is sampled.
func withTracing[In any](tracer trace.Tracer, toolName string, handler toolHandler[In]) toolHandler[In] {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpOpPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		if err != nil || (result != nil && result.IsError) {
			span.SetStatus(codes.Error, "tool call failed")
		}

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			result.Content = append(result.Content,
				&mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())})
		}

		return result, output, err
	}
}

// withMetrics wraps a tool handler to record RED metrics per invocation.
func withMetrics[In any](metrics *observability.REDMetrics, toolName string, handler toolHandler[In]) toolHandler[In] {
	if metrics == nil {
		return handler
	}

	op := mcpOpPrefix + toolName

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, op)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := observability.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = observability.StatusError
		}

		metrics.RecordRequest(ctx, op, status, time.Since(start))

		return result, output, err
	}
}

// withLogging logs failed tool calls at warn level.
func withLogging[In any](logger *slog.Logger, toolName string, handler toolHandler[In]) toolHandler[In] {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		result, output, err := handler(ctx, req, input)

		if err != nil {
			logger.WarnContext(ctx, "tool call failed", "tool", toolName, "error", err)
		} else if result != nil && result.IsError {
			logger.WarnContext(ctx, "tool returned error", "tool", toolName, "error", resultText(result))
		}

		return result, output, err
	}
}

func resultText(result *mcpsdk.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(*mcpsdk.TextContent); ok {
			return text.Text
		}
	}

	return ""
}

// Tool description constants.
const (
	rankToolDescription = "Rank a list of records by a numeric, string or date field. " +
		"Returns ordinal, competition, percentile and decile ranks for every record. " +
		"Optional CEL expressions compute the ranked field or filter records."

	describeToolDescription = "Summarize a list of numbers, or one numeric field of a list of records: " +
		"count, sum, mean, median, mode, standard deviation, min and max."

	pearsonToolDescription = "Compute the Pearson correlation coefficient of two equal-length lists of numbers."
)
