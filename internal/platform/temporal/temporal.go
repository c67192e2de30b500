// Package temporal dials Temporal clients with tracing and structured logging.
package temporal

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	temporallog "go.temporal.io/sdk/log"
)

// Options configure Dial. Empty fields take the SDK defaults.
type Options struct {
	Address   string
	Namespace string
	Logger    *slog.Logger
	Tracer    trace.Tracer
}

// ClientOptions builds SDK options with the OpenTelemetry interceptor installed.
func ClientOptions(opts Options) (client.Options, error) {
	if opts.Address == "" {
		opts.Address = client.DefaultHostPort
	}
	if opts.Namespace == "" {
		opts.Namespace = client.DefaultNamespace
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: opts.Tracer})
	if err != nil {
		return client.Options{}, err
	}
	options := client.Options{
		HostPort:  opts.Address,
		Namespace: opts.Namespace,
		Logger:    temporallog.NewStructuredLogger(opts.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return options, nil
}

// Dial connects to the Temporal frontend.
func Dial(opts Options) (client.Client, error) {
	options, err := ClientOptions(opts)
	if err != nil {
		return nil, err
	}
	return client.Dial(options)
}
