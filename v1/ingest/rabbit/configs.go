package rabbit

// Config describes the broker connection and the queue the source consumes.
type Config struct {
	Connection Connection `yaml:"connection"`
	Queue      Queue      `yaml:"queue"`
	DeadLetter DeadLetter `yaml:"dead_letter"`
}

// Connection holds the address, credentials and TLS settings.
type Connection struct {
	Host     string `yaml:"host" env:"RABBIT_HOST"`
	Port     uint   `yaml:"port" env:"RABBIT_PORT"`
	User     string `yaml:"user" env:"RABBIT_USER"`
	Password string `yaml:"password" env:"RABBIT_PASSWORD"`

	// IsSSLEnabled switches the scheme to amqps.
	IsSSLEnabled bool `yaml:"ssl_enabled" env:"RABBIT_SSL_ENABLED"`

	// UseCert sends ClientCertPath/ClientKeyPath for mutual TLS.
	UseCert        bool   `yaml:"use_cert" env:"RABBIT_USE_CERT"`
	CACertPath     string `yaml:"ca_cert_path" env:"RABBIT_CA_CERT_PATH"`
	ClientCertPath string `yaml:"client_cert_path" env:"RABBIT_CLIENT_CERT_PATH"`
	ClientKeyPath  string `yaml:"client_key_path" env:"RABBIT_CLIENT_KEY_PATH"`
	ServerName     string `yaml:"server_name" env:"RABBIT_SERVER_NAME"`
}

// Queue names the queue and, when Declare is set, the exchange it is bound to.
type Queue struct {
	Name         string `yaml:"name" env:"RABBIT_QUEUE"`
	ExchangeName string `yaml:"exchange" env:"RABBIT_EXCHANGE"`
	ExchangeType string `yaml:"exchange_type" env:"RABBIT_EXCHANGE_TYPE"`
	RoutingKey   string `yaml:"routing_key" env:"RABBIT_ROUTING_KEY"`

	// PrefetchCount bounds unacknowledged deliveries. 0 means no limit.
	PrefetchCount int `yaml:"prefetch_count" env:"RABBIT_PREFETCH_COUNT"`

	// ConsumerTag identifies the consumer on the broker.
	ConsumerTag string `yaml:"consumer_tag" env:"RABBIT_CONSUMER_TAG"`

	// Declare makes Dial declare the exchange, the queue and the binding.
	Declare bool `yaml:"declare" env:"RABBIT_DECLARE"`
}

// DeadLetter routes rejected messages to a separate exchange and queue.
// It only takes effect when Queue.Declare is set and ExchangeName is not empty.
type DeadLetter struct {
	ExchangeName string `yaml:"exchange" env:"RABBIT_DLX"`
	QueueName    string `yaml:"queue" env:"RABBIT_DLQ"`
	RoutingKey   string `yaml:"routing_key" env:"RABBIT_DLX_ROUTING_KEY"`
}

// Default values for configuration
const (
	DefaultPort          = 5672
	DefaultExchangeType  = "direct"
	DefaultPrefetchCount = 64
	DefaultConsumerTag   = "vevtor"
)
