package main

import (
	"context"
	"time"

	"github.com/icco/gomoku"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/icco/gomoku/cmd/server"

// gameMetrics are the instruments recorded by the game handlers. They are
// created from the global meter so they report through whatever provider
// setupMetrics installs.
type gameMetrics struct {
	games    metric.Int64Counter
	moves    metric.Int64Counter
	finished metric.Int64Counter
	search   metric.Float64Histogram
	nodes    metric.Int64Histogram
}

var stats = mustGameMetrics(otel.Meter(meterName))

func newGameMetrics(m metric.Meter) (*gameMetrics, error) {
	games, err := m.Int64Counter("gomoku.games.created",
		metric.WithDescription("Games created"))
	if err != nil {
		return nil, err
	}

	moves, err := m.Int64Counter("gomoku.moves",
		metric.WithDescription("Stones placed, by color and source"))
	if err != nil {
		return nil, err
	}

	finished, err := m.Int64Counter("gomoku.games.finished",
		metric.WithDescription("Games that ended, by result"))
	if err != nil {
		return nil, err
	}

	search, err := m.Float64Histogram("gomoku.ai.search.duration",
		metric.WithDescription("Time spent choosing an AI move"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	nodes, err := m.Int64Histogram("gomoku.ai.search.nodes",
		metric.WithDescription("Search nodes visited per AI move"))
	if err != nil {
		return nil, err
	}

	return &gameMetrics{
		games:    games,
		moves:    moves,
		finished: finished,
		search:   search,
		nodes:    nodes,
	}, nil
}

func mustGameMetrics(m metric.Meter) *gameMetrics {
	gm, err := newGameMetrics(m)
	if err != nil {
		panic(err)
	}
	return gm
}

// setupMetrics exports otel metrics through the default prometheus registry,
// which promhttp serves on /metrics.
func setupMetrics() (*sdkmetric.MeterProvider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	return provider, nil
}

func (gm *gameMetrics) move(ctx context.Context, color gomoku.Color, source string) {
	gm.moves.Add(ctx, 1, metric.WithAttributes(
		attribute.String("color", color.String()),
		attribute.String("source", source),
	))
}

func (gm *gameMetrics) gameOver(ctx context.Context, g *gomoku.Game) {
	result, err := g.GetMeta("Result")
	if err != nil {
		return
	}
	gm.finished.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (gm *gameMetrics) searched(ctx context.Context, level string, depth int, nodes int64, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("level", level),
		attribute.Int("depth", depth),
	)
	gm.search.Record(ctx, elapsed.Seconds(), attrs)
	gm.nodes.Record(ctx, nodes, attrs)
}
