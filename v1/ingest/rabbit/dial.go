package rabbit

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/url"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Dial opens a connection and a channel configured from cfg. The caller
// closes the connection, which also closes the channel.
func Dial(cfg Config) (*amqp.Connection, *amqp.Channel, error) {
	if cfg.Queue.Name == "" {
		return nil, nil, fmt.Errorf("rabbit: queue name is required")
	}

	conn, err := newConnection(cfg.Connection)
	if err != nil {
		return nil, nil, err
	}

	ch, err := openChannel(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

func connectionURL(c Connection) string {
	scheme := "amqp"
	if c.IsSSLEnabled {
		scheme = "amqps"
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, port),
	}
	return u.String()
}

func newConnection(c Connection) (*amqp.Connection, error) {
	amqpCfg := amqp.Config{Heartbeat: 2 * time.Second}

	if c.IsSSLEnabled {
		tlsConfig, err := createTLSConfig(c)
		if err != nil {
			return nil, fmt.Errorf("rabbit: %w", err)
		}
		amqpCfg.TLSClientConfig = tlsConfig
	}

	conn, err := amqp.DialConfig(connectionURL(c), amqpCfg)
	if err != nil {
		return nil, fmt.Errorf("rabbit: failed to connect to %s:%d: %w", c.Host, c.Port, err)
	}
	return conn, nil
}

func createTLSConfig(c Connection) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		ServerName: c.ServerName,
		MinVersion: tls.VersionTLS12,
	}

	if c.CACertPath != "" {
		caCert, err := os.ReadFile(c.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		pool.AppendCertsFromPEM(caCert)
		tlsConfig.RootCAs = pool
	}

	if c.UseCert {
		cert, err := tls.LoadX509KeyPair(c.ClientCertPath, c.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func openChannel(conn *amqp.Connection, cfg Config) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbit: failed to create channel: %w", err)
	}

	if cfg.Queue.Declare {
		if err := declare(ch, cfg); err != nil {
			_ = ch.Close()
			return nil, err
		}
	}

	prefetch := cfg.Queue.PrefetchCount
	if prefetch == 0 {
		prefetch = DefaultPrefetchCount
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("rabbit: failed to set QoS: %w", err)
	}
	return ch, nil
}

func declare(ch *amqp.Channel, cfg Config) error {
	q := cfg.Queue
	exchangeType := q.ExchangeType
	if exchangeType == "" {
		exchangeType = DefaultExchangeType
	}

	if q.ExchangeName != "" {
		if err := ch.ExchangeDeclare(q.ExchangeName, exchangeType, true, false, false, false, nil); err != nil {
			return fmt.Errorf("rabbit: failed to declare exchange %s: %w", q.ExchangeName, err)
		}
	}

	args := queueArgs(cfg.DeadLetter)
	if args != nil {
		dl := cfg.DeadLetter
		if err := ch.ExchangeDeclare(dl.ExchangeName, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("rabbit: failed to declare dead letter exchange: %w", err)
		}
		if _, err := ch.QueueDeclare(dl.QueueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("rabbit: failed to declare dead letter queue: %w", err)
		}
		if err := ch.QueueBind(dl.QueueName, dl.RoutingKey, dl.ExchangeName, false, nil); err != nil {
			return fmt.Errorf("rabbit: failed to bind dead letter queue: %w", err)
		}
	}

	if _, err := ch.QueueDeclare(q.Name, true, false, false, false, args); err != nil {
		return fmt.Errorf("rabbit: failed to declare queue %s: %w", q.Name, err)
	}

	if q.ExchangeName != "" {
		if err := ch.QueueBind(q.Name, q.RoutingKey, q.ExchangeName, false, nil); err != nil {
			return fmt.Errorf("rabbit: failed to bind queue %s: %w", q.Name, err)
		}
	}
	return nil
}

// queueArgs returns the dead-letter arguments of the main queue, or nil.
func queueArgs(dl DeadLetter) amqp.Table {
	if dl.ExchangeName == "" {
		return nil
	}
	return amqp.Table{
		"x-dead-letter-exchange":    dl.ExchangeName,
		"x-dead-letter-routing-key": dl.RoutingKey,
	}
}
