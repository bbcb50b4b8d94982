package narration

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/abhisek/listenquest/internal/speech"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return sr
}

func outcome(s sdktrace.ReadOnlySpan) string {
	for _, kv := range s.Attributes() {
		if kv.Key == attribute.Key("narration.outcome") {
			return kv.Value.AsString()
		}
	}
	return ""
}

func TestNarrateSpans(t *testing.T) {
	sr := recordSpans(t)
	synth := newFakeSynth()
	o := NewOrchestrator(synth, nil)
	o.Init(context.Background())

	if err := o.Narrate(context.Background(), "Hello there", speech.Profile{Key: "coach"}); err != nil {
		t.Fatalf("narrate: %v", err)
	}
	synth.speakErr = errors.New("device gone")
	_ = o.Narrate(context.Background(), "Again", speech.Profile{Key: "coach"})

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "narration.narrate" || outcome(spans[0]) != "spoken" {
		t.Errorf("first span = %s outcome %q", spans[0].Name(), outcome(spans[0]))
	}
	if len(spans[1].Events()) == 0 {
		t.Error("failed utterance should record the error on its span")
	}
}
