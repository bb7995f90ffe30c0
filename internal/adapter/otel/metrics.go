// Package otel provides OpenTelemetry instrumentation for Stride.
package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "stride"

// Metrics holds all Stride metric instruments.
type Metrics struct {
	SessionsStarted   metric.Int64Counter
	SessionsFinalized metric.Int64Counter
	AgentCalls        metric.Int64Counter
	AgentFailures     metric.Int64Counter
	BudgetRejections  metric.Int64Counter
	DateConflicts     metric.Int64Counter
	AgentLatency      metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.SessionsStarted, err = meter.Int64Counter("stride.sessions.started",
		metric.WithDescription("Number of planning sessions created"))
	if err != nil {
		return nil, err
	}

	m.SessionsFinalized, err = meter.Int64Counter("stride.sessions.finalized",
		metric.WithDescription("Number of sessions closed by a finalize action"))
	if err != nil {
		return nil, err
	}

	m.AgentCalls, err = meter.Int64Counter("stride.agent.calls",
		metric.WithDescription("Number of planner agent invocations"))
	if err != nil {
		return nil, err
	}

	m.AgentFailures, err = meter.Int64Counter("stride.agent.failures",
		metric.WithDescription("Number of failed planner agent invocations"))
	if err != nil {
		return nil, err
	}

	m.BudgetRejections, err = meter.Int64Counter("stride.goals.budget_rejections",
		metric.WithDescription("Number of goal mutations rejected by the hour-budget check"))
	if err != nil {
		return nil, err
	}

	m.DateConflicts, err = meter.Int64Counter("stride.tasks.date_conflicts",
		metric.WithDescription("Number of task mutations rejected by the date-conflict check"))
	if err != nil {
		return nil, err
	}

	m.AgentLatency, err = meter.Float64Histogram("stride.agent.latency_seconds",
		metric.WithDescription("Planner agent call latency in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
