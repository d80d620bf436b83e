package session

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/DwoaC/lander/internal/session"

// meter returns the global OTel meter (no-op if not configured).
func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
