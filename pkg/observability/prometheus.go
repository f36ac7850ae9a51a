package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// PrometheusHandler creates a Prometheus exporter backed by an OTel
// MeterProvider and returns an [http.Handler] serving the /metrics scrape
// endpoint together with the provider to obtain meters from. Each call
// creates an independent Prometheus registry to avoid collector conflicts
// when called multiple times.
func PrometheusHandler() (http.Handler, *sdkmetric.MeterProvider, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), provider, nil
}

// NewPrometheusTreeMetrics is a shortcut for PrometheusHandler followed by
// NewTreeMetrics on a meter of the returned provider.
func NewPrometheusTreeMetrics(treeName string) (*TreeMetrics, http.Handler, *sdkmetric.MeterProvider, error) {
	handler, provider, err := PrometheusHandler()
	if err != nil {
		return nil, nil, nil, err
	}

	tm, err := NewTreeMetrics(provider.Meter(scopeName), treeName)
	if err != nil {
		return nil, nil, nil, err
	}

	return tm, handler, provider, nil
}
