package agent

import (
	"context"
	"log/slog"

	"leadvoice/internal/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type tracedRunner struct {
	Runner
	agentID string
}

// WithTrace wraps r so every turn is recorded as a span.
func WithTrace(r Runner, agentID string) Runner {
	return &tracedRunner{Runner: r, agentID: agentID}
}

func (t *tracedRunner) Run(ctx context.Context, message string, emit func(Event)) error {
	ctx, span := trace.Tracer().Start(ctx, "agent.turn",
		oteltrace.WithAttributes(
			attribute.String("agent.id", t.agentID),
			attribute.String("livekit.room", RoomFromContext(ctx)),
			attribute.String("session.id", SessionIDFromContext(ctx)),
			attribute.Int("gen_ai.input_length", len(message)),
		),
	)
	defer span.End()

	sc := span.SpanContext()
	slog.Debug("turn span started", "agent_id", t.agentID, "trace_id", sc.TraceID(), "span_id", sc.SpanID())

	var outLen int
	err := t.Runner.Run(ctx, message, func(e Event) {
		if e.Type == EventDone {
			if s, ok := e.Data.(string); ok {
				outLen = len(s)
			}
		}
		emit(e)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("gen_ai.output_length", outLen))
	return nil
}
