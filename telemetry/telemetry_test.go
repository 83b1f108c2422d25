package telemetry

import (
	"context"
	stderrors "errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/wippyai/wasm96/config"
	"github.com/wippyai/wasm96/errors"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(config.TracingConfig{Exporter: "stdout"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer shutdown(context.Background())
	if _, ok := otel.GetTracerProvider().(noop.TracerProvider); !ok {
		t.Errorf("expected noop provider, got %T", otel.GetTracerProvider())
	}
}

func TestSetup_Exporters(t *testing.T) {
	for _, exp := range []string{"", "noop", "stdout"} {
		t.Run(exp, func(t *testing.T) {
			shutdown, err := Setup(config.TracingConfig{Enabled: true, Exporter: exp})
			if err != nil {
				t.Fatalf("Setup: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Errorf("shutdown: %v", err)
			}
		})
	}
}

func TestSetup_Unsupported(t *testing.T) {
	_, err := Setup(config.TracingConfig{Enabled: true, Exporter: "zipkin"})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindUnsupported}) {
		t.Fatalf("got %v", err)
	}
}

func TestStartSpan_Records(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "frame", attribute.Int("frame", 3))
	End(span, stderrors.New("trap"))

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d", len(spans))
	}
	if spans[0].Name() != "frame" {
		t.Errorf("name = %s", spans[0].Name())
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("expected the error recorded as an event")
	}
}
