package tracer

// Config defines the tracer settings.
type Config struct {
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `yaml:"service_name" env:"TRACER_SERVICE_NAME"`

	// AppEnv is reported as the deployment environment.
	AppEnv string `yaml:"app_env" env:"APP_ENV"`

	// EnableExport sends spans to an OTLP/HTTP collector.
	EnableExport bool `yaml:"enable_export" env:"TRACER_ENABLE_EXPORT"`

	// Endpoint is the collector URL, e.g. "http://otel-collector:4318".
	// Empty means the OTEL_EXPORTER_OTLP_* environment defaults.
	Endpoint string `yaml:"endpoint" env:"TRACER_ENDPOINT"`

	// SampleRatio is the fraction of root spans kept, in [0, 1].
	// Zero keeps every span.
	SampleRatio float64 `yaml:"sample_ratio" env:"TRACER_SAMPLE_RATIO"`
}

// DefaultConfig returns a non-exporting tracer configuration.
func DefaultConfig() Config {
	return Config{ServiceName: "vevtor", AppEnv: "development"}
}

// Logger defines the logging interface used by the tracer.
// *logger.Logger satisfies it.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}
