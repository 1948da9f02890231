package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"luciuz/edge/pkg/config"
	"luciuz/edge/pkg/proxy/middleware"
	"luciuz/edge/pkg/routing"
	"luciuz/edge/pkg/telemetry/logging"
	"luciuz/edge/pkg/telemetry/metrics"
	"luciuz/edge/pkg/telemetry/tracing"
)

// unmatchedRoute labels metrics for requests no route covers.
const unmatchedRoute = "unmatched"

// errBodyRead marks a request body that failed mid-read, usually a client
// that went away. It is answered like an oversized body.
var errBodyRead = errors.New("read request body")

// Options configures a Forwarder.
type Options struct {
	// MaxBodyBytes is the largest request body that is buffered and forwarded.
	// Default: config.DefaultMaxBodyBytes
	MaxBodyBytes int64

	// Timeout bounds the upstream round trip including the response body.
	// A route's own Timeout takes precedence. Zero disables the deadline.
	Timeout time.Duration

	// Metrics receives per-request measurements. May be nil.
	Metrics *metrics.Collector

	// Tracer starts the client span for each upstream call. May be nil.
	Tracer *tracing.Tracer

	// Logger defaults to the "proxy" component logger.
	Logger *slog.Logger
}

// Forwarder relays requests to the upstream selected by the route table.
// One Forwarder serves every route and is safe for concurrent use.
type Forwarder struct {
	client *http.Client
	table  *routing.Table
	opts   Options
	logger *slog.Logger
}

// NewForwarder creates a Forwarder. A nil client is replaced by NewClient
// with default settings.
func NewForwarder(client *http.Client, table *routing.Table, opts Options) *Forwarder {
	if client == nil {
		client = NewClient(ClientConfig{})
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Component("proxy")
	}
	return &Forwarder{
		client: client,
		table:  table,
		opts:   opts,
		logger: logger,
	}
}

// upstreamResponse is a fully buffered upstream answer.
type upstreamResponse struct {
	status int
	header http.Header
	body   []byte
}

// ServeHTTP implements http.Handler.
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, ok := f.table.Match(r.URL.Path)
	if !ok {
		f.opts.Metrics.RecordRequest(unmatchedRoute, http.StatusNotFound, 0)
		writeError(w, KindNoRoute)
		return
	}

	ctx := tracing.Extract(r.Context(), r.Header)
	ctx, span := f.opts.Tracer.Start(ctx, "proxy.forward", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	requestID := middleware.GetRequestID(ctx)
	tracing.SetForwardAttributes(span, route.Prefix, route.Upstream, r.Method, requestID)

	ctx = logging.WithRoute(ctx, route.Prefix)
	if traceID := tracing.TraceID(ctx); traceID != "" {
		ctx = logging.WithTraceID(ctx, traceID)
	}

	start := time.Now()
	resp, err := f.forward(ctx, r, route)
	upstream := time.Since(start)

	if err != nil {
		var ferr *ForwardError
		if !errors.As(err, &ferr) {
			ferr = newForwardError(KindBadGateway, err)
		}
		f.logFailure(ctx, route, ferr)
		tracing.SetError(span, ferr)

		status := ferr.Kind.Status()
		tracing.SetStatusCode(span, status)
		if ferr.Kind == KindPayloadTooLarge {
			f.opts.Metrics.RecordBodyRejected(route.Prefix)
			upstream = 0
		}
		f.opts.Metrics.RecordRequest(route.Prefix, status, upstream)
		writeError(w, ferr.Kind)
		return
	}

	tracing.SetStatusCode(span, resp.status)
	f.opts.Metrics.RecordRequest(route.Prefix, resp.status, upstream)

	copyResponseHeaders(w.Header(), resp.header)
	w.WriteHeader(resp.status)
	if _, err := w.Write(resp.body); err != nil {
		f.logger.DebugContext(ctx, "failed to write response to client", "error", err)
	}
}

// forward runs match, rewrite, send and translate for one request.
func (f *Forwarder) forward(ctx context.Context, r *http.Request, route routing.Route) (*upstreamResponse, error) {
	body, err := readBounded(r.Body, f.opts.MaxBodyBytes)
	if err != nil {
		return nil, err
	}

	if timeout := f.timeoutFor(route); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	target := routing.Target(route, r.URL)
	out, err := http.NewRequestWithContext(ctx, r.Method, target, bodyReader(body))
	if err != nil {
		return nil, newForwardError(KindBadGateway, fmt.Errorf("build upstream request: %w", err))
	}

	out.Header = outboundHeaders(r.Header)
	if r.Host != "" {
		out.Header.Set(headerForwardedHost, r.Host)
	}
	out.Header.Set(headerForwardedProto, "https")
	if id := middleware.GetRequestID(ctx); id != "" {
		out.Header.Set(middleware.RequestIDHeader, id)
	}
	tracing.Inject(ctx, out.Header)

	res, err := f.client.Do(out)
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("upstream request: %w", err))
	}
	defer res.Body.Close()

	if res.StatusCode < 100 || res.StatusCode > 999 {
		return nil, newForwardError(KindBadGateway, fmt.Errorf("upstream returned invalid status %d", res.StatusCode))
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("read upstream body: %w", err))
	}

	return &upstreamResponse{
		status: res.StatusCode,
		header: res.Header,
		body:   payload,
	}, nil
}

func (f *Forwarder) timeoutFor(route routing.Route) time.Duration {
	if route.Timeout > 0 {
		return route.Timeout
	}
	return f.opts.Timeout
}

func (f *Forwarder) logFailure(ctx context.Context, route routing.Route, ferr *ForwardError) {
	switch ferr.Kind {
	case KindPayloadTooLarge:
		if errors.Is(ferr.Err, errBodyRead) {
			f.logger.InfoContext(ctx, "request body read failed",
				"error", ferr.Err,
			)
			return
		}
		f.logger.InfoContext(ctx, "request body rejected",
			"limit_bytes", f.opts.MaxBodyBytes,
			"error", ferr.Err,
		)
	default:
		f.logger.WarnContext(ctx, "upstream request failed",
			"upstream", route.Upstream,
			"kind", string(ferr.Kind),
			"error", ferr.Err,
		)
	}
}

// readBounded reads at most limit bytes from body. One extra byte is read to
// tell a body of exactly limit bytes from a larger one.
func readBounded(body io.Reader, limit int64) ([]byte, error) {
	if body == nil || body == http.NoBody {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, newForwardError(KindPayloadTooLarge, fmt.Errorf("%w: %w", errBodyRead, err))
	}
	if int64(len(data)) > limit {
		return nil, newForwardError(KindPayloadTooLarge, fmt.Errorf("request body exceeds %d bytes", limit))
	}
	return data, nil
}

func bodyReader(body []byte) io.Reader {
	if len(body) == 0 {
		return http.NoBody
	}
	return bytes.NewReader(body)
}

// classify maps an upstream failure to 504 when the deadline fired and to
// 502 otherwise.
func classify(ctx context.Context, err error) *ForwardError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newForwardError(KindGatewayTimeout, err)
	}
	return newForwardError(KindBadGateway, err)
}
