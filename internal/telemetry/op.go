package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Instrument counts and times one family of operations (checkpoints,
// dispatches). With telemetry disabled the global providers are no-ops, so
// an Instrument costs nothing to hold or call.
type Instrument struct {
	prefix string
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// NewInstrument creates an Instrument whose spans are named prefix.<op> and
// whose metrics are aitri.<prefix>.operations / .duration / .errors.
func NewInstrument(scope, prefix string) *Instrument {
	m := Meter(scope)
	ops, _ := m.Int64Counter("aitri."+prefix+".operations",
		metric.WithDescription("Total "+prefix+" operations executed"),
	)
	dur, _ := m.Float64Histogram("aitri."+prefix+".operation.duration",
		metric.WithDescription(prefix+" operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("aitri."+prefix+".errors",
		metric.WithDescription("Total "+prefix+" operation errors"),
	)
	return &Instrument{
		prefix: prefix,
		tracer: Tracer(scope),
		ops:    ops,
		dur:    dur,
		errs:   errs,
	}
}

// Op is one in-flight operation started by Instrument.Start.
type Op struct {
	in    *Instrument
	ctx   context.Context
	span  trace.Span
	start time.Time
	attrs []attribute.KeyValue
}

// Start opens a span for name and counts the operation.
func (in *Instrument) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Op) {
	all := append([]attribute.KeyValue{attribute.String("aitri.operation", name)}, attrs...)
	ctx, span := in.tracer.Start(ctx, in.prefix+"."+name, trace.WithAttributes(all...))
	in.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, &Op{in: in, ctx: ctx, span: span, start: time.Now(), attrs: all}
}

// SetAttributes adds attributes to the span once they are known.
func (o *Op) SetAttributes(attrs ...attribute.KeyValue) {
	o.span.SetAttributes(attrs...)
}

// End records duration and err (if any) and closes the span.
func (o *Op) End(err error) {
	ms := float64(time.Since(o.start).Milliseconds())
	o.in.dur.Record(o.ctx, ms, metric.WithAttributes(o.attrs...))
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.in.errs.Add(o.ctx, 1, metric.WithAttributes(o.attrs...))
	}
	o.span.End()
}
