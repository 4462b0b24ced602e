package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const (
	TraceIDKey ctxKey = "trace_id"
	RunIDKey   ctxKey = "run_id"
)

// WithRunID tags ctx so every timing line of a planning run can be correlated.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func RunID(ctx context.Context) string {
	v, _ := ctx.Value(RunIDKey).(string)
	return v
}

// Time logs the duration of op once the returned func is deferred with the op's error.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	traceID, _ := ctx.Value(TraceIDKey).(string)
	runID := RunID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("trace_id=%s run_id=%s op=%s dur=%dms err=%v", traceID, runID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("trace_id=%s run_id=%s op=%s dur=%dms", traceID, runID, name, dur.Milliseconds())
	}
}
