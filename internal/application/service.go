package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fortio.org/safecast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/typereader/infrastructure/middleware"
	"github.com/ahrav/typereader/infrastructure/stats"
	"github.com/ahrav/typereader/internal/domain"
	"github.com/ahrav/typereader/internal/ports"
)

const tracerName = "github.com/ahrav/typereader"

// MetricWindow is the state gauge holding the window of the last summary.
const MetricWindow = "window"

// SummaryOptions selects what Summarize computes. Use
// Service.DefaultOptions to start from the configured defaults.
type SummaryOptions struct {
	// Key is the numeric field to reduce.
	Key string
	// Window is the number of leading matches considered; it must be positive.
	Window int
	// Statistic is the reduction name.
	Statistic string
	// SubtypeOf requests a drill-down into this category.
	SubtypeOf string
	// DrillDown additionally aggregates the subtypes of a uniquely
	// highlighted category.
	DrillDown bool
}

// Service wires a match source to a compiled Engine and reports what it
// does through logs, traces and metrics.
type Service struct {
	engine  *Engine
	source  ports.MatchSource
	metrics ports.MetricsCollector
	logger  *slog.Logger
	tracer  trace.Tracer
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithMetrics sets the metrics collector. The default discards metrics.
func WithMetrics(m ports.MetricsCollector) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the structured logger. The default is slog.Default.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer. The default is the global otel tracer.
func WithTracer(t trace.Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewService creates a Service over engine reading listings from source.
func NewService(engine *Engine, source ports.MatchSource, opts ...ServiceOption) (*Service, error) {
	if engine == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if source == nil {
		return nil, errors.New("match source cannot be nil")
	}
	s := &Service{
		engine:  engine,
		source:  source,
		metrics: ports.NoopMetrics{},
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Engine returns the compiled configuration the service runs with.
func (s *Service) Engine() *Engine { return s.engine }

// DefaultOptions returns SummaryOptions from the configured defaults.
func (s *Service) DefaultOptions() SummaryOptions {
	d := s.engine.Config.Defaults
	return SummaryOptions{
		Key:       d.Key,
		Window:    d.Window,
		Statistic: d.Statistic,
		DrillDown: d.DrillDown,
	}
}

// Open loads the listing at path into a Reader for target.
func (s *Service) Open(ctx context.Context, path, target string) (*domain.Reader, error) {
	ctx, span := s.tracer.Start(ctx, "typereader.Open", trace.WithAttributes(
		attribute.String("listing.path", path),
		attribute.String("listing.target", target),
	))
	defer span.End()
	start := time.Now()

	records, err := s.source.Load(ctx, path)
	s.metrics.RecordLatency("load", time.Since(start), nil)
	if err != nil {
		s.fail(span, "load", err)
		return nil, err
	}

	reader, err := domain.NewReader(records, target, s.engine.Aggregator)
	if err != nil {
		s.fail(span, "load", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("listing.records", reader.Len()))
	span.SetStatus(codes.Ok, "listing loaded")
	s.metrics.RecordCounter("load", 1, map[string]string{"status": "success"})
	s.metrics.RecordGauge(middleware.MetricRecordsLoaded, float64(reader.Len()), nil)
	s.logger.DebugContext(ctx, "listing loaded",
		slog.String("path", path),
		slog.String("target", reader.TargetName()),
		slog.Int("records", reader.Len()))
	return reader, nil
}

// Summarize aggregates the reader's listing by category, detects a
// uniquely highlighted category, and computes the subtype drill-down
// requested by opts.SubtypeOf or triggered by the highlight.
func (s *Service) Summarize(ctx context.Context, reader *domain.Reader, opts SummaryOptions) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "typereader.Summarize", trace.WithAttributes(
		attribute.String("aggregate.target", reader.TargetName()),
		attribute.String("aggregate.key", opts.Key),
		attribute.Int("aggregate.window", opts.Window),
		attribute.String("aggregate.statistic", opts.Statistic),
		attribute.String("aggregate.subtype_of", opts.SubtypeOf),
	))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordLatency("summarize", time.Since(start), nil) }()

	// The subtype category is checked up front so an unknown name fails
	// before anything is computed.
	if opts.SubtypeOf != "" && !s.engine.Taxonomy.Has(opts.SubtypeOf) {
		err := fmt.Errorf("%w: %q", domain.ErrUnknownCategory, opts.SubtypeOf)
		if hint := stats.Suggest(opts.SubtypeOf, s.engine.Taxonomy.Categories()); hint != "" {
			err = fmt.Errorf("%w (did you mean %q?)", err, hint)
		}
		s.recordAggregation(opts, "", "error")
		s.fail(span, "summarize", err)
		return nil, err
	}

	categories, err := s.aggregate(reader, opts, "")
	if err != nil {
		s.fail(span, "summarize", err)
		return nil, err
	}

	// Captions for rlap charts come from the reader's record of the last
	// successful rlap aggregation.
	captionWindow, captionStatistic := opts.Window, opts.Statistic
	if opts.Key == domain.FieldRLap {
		captionWindow, captionStatistic = reader.LastWindow(), reader.LastStatistic()
	}
	window, err := safecast.Conv[uint64](captionWindow)
	if err != nil {
		err = fmt.Errorf("%w: %d", domain.ErrInvalidWindow, captionWindow)
		s.fail(span, "summarize", err)
		return nil, err
	}
	s.metrics.RecordGauge(MetricWindow, float64(window), nil)

	summary := &Summary{
		Target:     reader.TargetName(),
		Key:        opts.Key,
		Statistic:  captionStatistic,
		Window:     window,
		Categories: categories,
		Rings:      s.rings(captionStatistic, window),
	}
	if top, ok := reader.Top(); ok {
		summary.Top = newTopMatch(top)
	}
	if highlighted, ok := domain.Highlight(categories); ok {
		summary.Highlight = highlighted
		span.AddEvent("category.highlighted", trace.WithAttributes(attribute.String("category", highlighted)))
	}

	drill := opts.SubtypeOf
	if drill == "" && opts.DrillDown {
		drill = summary.Highlight
	}
	if drill != "" {
		subtypes, err := s.aggregate(reader, opts, drill)
		if err != nil {
			s.fail(span, "summarize", err)
			return nil, err
		}
		summary.Subtypes = &subtypes
	}

	span.SetStatus(codes.Ok, "summary computed")
	s.logger.InfoContext(ctx, "listing summarised",
		slog.String("target", summary.Target),
		slog.String("statistic", opts.Statistic),
		slog.Int("window", opts.Window),
		slog.String("highlight", summary.Highlight),
		slog.Bool("drill_down", summary.Subtypes != nil))
	return summary, nil
}

// aggregate runs one aggregation and records its metrics. rlap requests go
// through AggregateRLap so the reader's caption cache stays current.
func (s *Service) aggregate(reader *domain.Reader, opts SummaryOptions, subtypeOf string) (domain.Result, error) {
	var (
		res domain.Result
		err error
	)
	if opts.Key == domain.FieldRLap {
		res, err = reader.AggregateRLap(opts.Window, opts.Statistic, subtypeOf)
	} else {
		res, err = reader.Aggregate(domain.Request{
			Key:       opts.Key,
			Window:    opts.Window,
			Statistic: opts.Statistic,
			SubtypeOf: subtypeOf,
		})
	}
	if err != nil {
		s.recordAggregation(opts, subtypeOf, "error")
		return domain.Result{}, err
	}

	s.recordAggregation(opts, subtypeOf, "success")
	for _, g := range res.Groups {
		s.metrics.RecordGauge(middleware.MetricGroupValue, g.Value, map[string]string{"mode": res.Mode(), "group": g.Name})
	}
	return res, nil
}

func (s *Service) recordAggregation(opts SummaryOptions, subtypeOf, status string) {
	s.metrics.RecordCounter(middleware.MetricAggregations, 1, map[string]string{
		"mode":      modeLabel(subtypeOf),
		"statistic": opts.Statistic,
		"status":    status,
	})
}

// rings returns the chart contour levels, scaled by the window for
// sum-like statistics when configured.
func (s *Service) rings(statistic string, window uint64) []float64 {
	cfg := s.engine.Config.Chart
	rings := append([]float64(nil), cfg.Rings...)
	kind, ok := s.engine.Stats.Kind(statistic)
	if !cfg.ScaleSumRings || !ok || !kind.IsSumLike() {
		return rings
	}
	for i := range rings {
		rings[i] *= float64(window)
	}
	return rings
}

func (s *Service) fail(span trace.Span, operation string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.RecordCounter(operation, 1, map[string]string{"status": "error"})
	s.logger.Debug("operation failed", slog.String("operation", operation), slog.Any("error", err))
}

func modeLabel(subtypeOf string) string {
	if subtypeOf == "" {
		return "category"
	}
	return "subtype"
}
