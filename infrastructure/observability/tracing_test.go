package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracerProvider_ExportsSampledSpans(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  int
	}{
		{name: "always", ratio: 1, want: 1},
		{name: "never", ratio: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			exporter := tracetest.NewInMemoryExporter()
			tp, err := NewTracerProvider(ctx, TracingConfig{
				Environment: "test",
				SampleRatio: tt.ratio,
				Exporter:    exporter,
			})
			require.NoError(t, err)
			defer tp.Shutdown(ctx)

			_, span := tp.Tracer().Start(ctx, "HistoryService.Commit")
			span.End()
			require.NoError(t, tp.ForceFlush(ctx))

			spans := exporter.GetSpans()
			require.Len(t, spans, tt.want)
			if tt.want > 0 {
				assert.Equal(t, "HistoryService.Commit", spans[0].Name)
				name, ok := spans[0].Resource.Set().Value("service.name")
				assert.True(t, ok)
				assert.Equal(t, "netdesign", name.AsString())
			}
		})
	}
}

func TestTracerProvider_NoEndpointDropsSpans(t *testing.T) {
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, TracingConfig{ServiceName: "replay", SampleRatio: 1})
	require.NoError(t, err)

	_, span := tp.Tracer().Start(ctx, "noop")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, tp.Shutdown(ctx))
}
