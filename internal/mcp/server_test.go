package mcp_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/calculate/internal/mcp"
	"github.com/Sumatoshi-tech/calculate/internal/observability"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// connect starts srv on an in-memory transport and returns a client session.
func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func callTool(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	return result
}

func firstText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestNewServer_ToolsRegistered(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{Logger: quietLogger()})

	assert.Equal(t, []string{"calculate_describe", "calculate_pearson", "calculate_rank"}, srv.ListToolNames())
}

func TestServer_ListTools(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Logger: quietLogger()}))

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 3)

	for _, tool := range res.Tools {
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
}

func TestServer_CallRank(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Logger: quietLogger()}))

	result := callTool(t, session, mcp.ToolNameRank, map[string]any{
		"records": []any{
			map[string]any{"name": "Joan", "value": 1},
			map[string]any{"name": "Jane", "value": 2},
			map[string]any{"name": "Mary", "value": 2},
			map[string]any{"name": "Josh", "value": 4},
		},
		"label": "name",
	})
	require.False(t, result.IsError, firstText(t, result))

	var rows []struct {
		Label       string `json:"label"`
		Competition int    `json:"competition"`
		Decile      int    `json:"decile"`
	}

	require.NoError(t, json.Unmarshal([]byte(firstText(t, result)), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, "Josh", rows[0].Label)
	assert.Equal(t, 10, rows[0].Decile)
	assert.Equal(t, 2, rows[1].Competition)
	assert.Equal(t, 2, rows[2].Competition)
	assert.Equal(t, "Joan", rows[3].Label)
}

func TestServer_CallRank_Error(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Logger: quietLogger()}))

	result := callTool(t, session, mcp.ToolNameRank, map[string]any{
		"records": []any{map[string]any{"value": 1}, map[string]any{"value": "two"}},
	})

	assert.True(t, result.IsError)
	assert.Contains(t, firstText(t, result), "record 1")
}

func TestServer_CallDescribe(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Logger: quietLogger()}))

	result := callTool(t, session, mcp.ToolNameDescribe, map[string]any{"values": []any{1, 2, 3, 2}})
	require.False(t, result.IsError, firstText(t, result))

	var summary struct {
		Count  int      `json:"count"`
		Mean   float64  `json:"mean"`
		Mode   *float64 `json:"mode"`
		Median float64  `json:"median"`
	}

	require.NoError(t, json.Unmarshal([]byte(firstText(t, result)), &summary))
	assert.Equal(t, 4, summary.Count)
	assert.InDelta(t, 2, summary.Mean, 1e-12)
	assert.InDelta(t, 2, summary.Median, 1e-12)
	require.NotNil(t, summary.Mode)
	assert.InDelta(t, 2, *summary.Mode, 0)
}

func TestServer_CallPearson(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Logger: quietLogger()}))

	result := callTool(t, session, mcp.ToolNamePearson, map[string]any{
		"x": []any{1200, 1400, 1100, 800},
		"y": []any{3.6, 3.9, 3.0, 2.5},
	})
	require.False(t, result.IsError, firstText(t, result))

	var out mcp.PearsonOutput

	require.NoError(t, json.Unmarshal([]byte(firstText(t, result)), &out))
	assert.Equal(t, 4, out.N)
	assert.InDelta(t, 0.9714441330841945, out.Coefficient, 1e-9)

	result = callTool(t, session, mcp.ToolNamePearson, map[string]any{"x": []any{1}, "y": []any{1, 2}})
	assert.True(t, result.IsError)
}

func TestServer_MetricsAndTracing(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	red, err := observability.NewREDMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Logger: quietLogger(), Metrics: red, Tracer: tracer}))

	result := callTool(t, session, mcp.ToolNamePearson, map[string]any{"x": []any{1, 2, 3}, "y": []any{2, 4, 7}})
	require.False(t, result.IsError)

	last, ok := result.Content[len(result.Content)-1].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, last.Text, "trace_id=")

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "mcp.calculate_pearson", spans[0].Name())

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.NotEmpty(t, rm.ScopeMetrics)
}
