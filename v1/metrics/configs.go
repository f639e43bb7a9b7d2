package metrics

// Config defines the configuration for the Prometheus metrics server.
type Config struct {
	// Address is the listen address of the /metrics endpoint, e.g. ":9090".
	// An empty address registers the metrics without serving them.
	Address string `yaml:"address" env:"METRICS_ADDRESS"`

	// ServiceName is attached to every metric as the constant "service" label.
	ServiceName string `yaml:"service_name" env:"METRICS_SERVICE_NAME"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" env:"METRICS_ENABLE_DEFAULT_COLLECTORS"`
}

const (
	DefaultNamespace   = "vevtor"
	DefaultServiceName = "vevtor"
)

// DefaultConfig returns a configuration serving on :9090.
func DefaultConfig() Config {
	return Config{
		Address:                 ":9090",
		ServiceName:             DefaultServiceName,
		Namespace:               DefaultNamespace,
		EnableDefaultCollectors: true,
	}
}

func (c Config) WithAddress(addr string) Config {
	c.Address = addr
	return c
}

func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}
