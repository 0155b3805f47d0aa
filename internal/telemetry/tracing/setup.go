package tracing

import (
	"fmt"

	"github.com/honeycombio/otel-config-go/otelconfig"
)

// Setup configures the OpenTelemetry SDK through the honeycomb distro.
// When tracing is disabled, a no-op shutdown func is returned.
func Setup(enabled bool, serviceName string) (func(), error) {
	if !enabled {
		return func() {}, nil
	}

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(serviceName),
	)
	if err != nil {
		return nil, fmt.Errorf("configure opentelemetry: %w", err)
	}

	return otelShutdown, nil
}
