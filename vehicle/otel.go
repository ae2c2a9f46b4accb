package vehicle

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "robotcar/vehicle"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	turns         metric.Int64Counter
	stops         metric.Int64Counter
	voiceCommands metric.Int64Counter
	searchMisses  metric.Int64Counter
}

// newMetrics uses the global meter provider, a no-op unless one is installed.
func newMetrics() *metrics {
	m, err := buildMetrics(meter())
	if err != nil {
		log.WithError(err).Warn("Could not create vehicle metrics, disabling them")
		m, _ = buildMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}
	return m
}

func buildMetrics(mt metric.Meter) (*metrics, error) {
	var m metrics
	var err error
	if m.turns, err = mt.Int64Counter("vehicle.turns",
		metric.WithDescription("Turns executed, by outcome")); err != nil {
		return nil, err
	}
	if m.stops, err = mt.Int64Counter("vehicle.stops",
		metric.WithDescription("Stops of a moving vehicle")); err != nil {
		return nil, err
	}
	if m.voiceCommands, err = mt.Int64Counter("vehicle.voice.commands",
		metric.WithDescription("Voice commands executed, by command")); err != nil {
		return nil, err
	}
	if m.searchMisses, err = mt.Int64Counter("vehicle.search.misses",
		metric.WithDescription("Direction searches that found no clear heading")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *metrics) turn(outcome TurnPhase) {
	m.turns.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))
}

func (m *metrics) stop() {
	m.stops.Add(context.Background(), 1)
}

func (m *metrics) voiceCommand(name string) {
	m.voiceCommands.Add(context.Background(), 1, metric.WithAttributes(attribute.String("command", name)))
}

func (m *metrics) searchMiss() {
	m.searchMisses.Add(context.Background(), 1)
}
