package restyutil

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentOutput receives a plain text dump of every finished exchange.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type dumpIdKey struct{}

type instrumentation struct {
	tracer trace.Tracer
	output InstrumentOutput
}

// InstrumentClient wraps every request of client in a span. A nil tracer
// falls back to the global "resty" tracer. When output is non-nil and debug
// logging is on, each exchange is also dumped to output.
func InstrumentClient(client *resty.Client, tracer trace.Tracer, output InstrumentOutput) {
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}
	in := instrumentation{tracer: tracer, output: output}
	client.OnBeforeRequest(in.before)
	client.OnAfterResponse(in.after)
	client.OnError(in.failed)
}

func spanName(method, rawUrl string) string {
	u, err := url.Parse(rawUrl)
	if err != nil || u.Host == "" {
		return "http " + method
	}
	return fmt.Sprintf("http %s %s", method, u.Host)
}

// dumpId names a dump after the upstream host and method, "GET-www.youtube.com".
func dumpId(method, rawUrl string) string {
	host := "unknown"
	if u, err := url.Parse(rawUrl); err == nil && u.Host != "" {
		host = strings.ReplaceAll(u.Host, ":", "_")
	}
	return method + "-" + host
}

func (in instrumentation) before(_ *resty.Client, req *resty.Request) error {
	ctx, _ := in.tracer.Start(
		req.Context(), spanName(req.Method, req.URL),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	if in.output != nil && slog.Default().Enabled(ctx, slog.LevelDebug) {
		ctx = context.WithValue(ctx, dumpIdKey{}, dumpId(req.Method, req.URL))
		slog.DebugContext(ctx, "outbound request", "method", req.Method, "url", req.URL)
	}
	req.SetContext(ctx)
	return nil
}

func (in instrumentation) after(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// RawRequest only exists once the request was sent
	if raw := res.Request.RawRequest; raw != nil {
		span.SetAttributes(httpconv.ClientRequest(raw)...)
	}
	if raw := res.RawResponse; raw != nil {
		span.SetAttributes(httpconv.ClientResponse(raw)...)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
	}

	if id, ok := ctx.Value(dumpIdKey{}).(string); ok {
		in.output.Write(id, formatHttpMessage(res))
		slog.DebugContext(
			ctx, "outbound response",
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"took", res.Time(),
		)
	}
	return nil
}

func (in instrumentation) failed(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	if raw := req.RawRequest; raw != nil {
		span.SetAttributes(httpconv.ClientRequest(raw)...)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")

	slog.WarnContext(ctx, "outbound request failed", "method", req.Method, "url", req.URL, "err", err)
}
