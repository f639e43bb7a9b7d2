package worker

import "fmt"

// SendPolicy decides what a Producer does when the queue is full.
type SendPolicy int

const (
	// Block waits for queue space or for the caller's context to end.
	Block SendPolicy = iota
	// FailFast returns ErrQueueFull immediately.
	FailFast
)

func (p SendPolicy) String() string {
	switch p {
	case Block:
		return "block"
	case FailFast:
		return "fail_fast"
	default:
		return fmt.Sprintf("SendPolicy(%d)", int(p))
	}
}

// MarshalText encodes the policy by name.
func (p SendPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts "block" and "fail_fast".
func (p *SendPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "block", "":
		*p = Block
	case "fail_fast":
		*p = FailFast
	default:
		return fmt.Errorf("worker: unknown send policy %q", text)
	}
	return nil
}

// Config holds the worker settings fixed at spawn time.
type Config struct {
	// BatchSize is the buffer length that triggers a dispatch. A batch
	// size of 1 dispatches every item on its own.
	BatchSize int `yaml:"batch_size"`

	// Capacity is the queue depth between producers and the worker. With
	// 0 every send waits until the worker is ready to receive.
	Capacity int `yaml:"capacity"`

	// Policy applies when the queue is full.
	Policy SendPolicy `yaml:"policy"`
}

// Defaults used by DefaultConfig.
const (
	DefaultBatchSize = 64
	DefaultCapacity  = 256
)

// DefaultConfig returns a blocking worker configuration.
func DefaultConfig() Config {
	return Config{BatchSize: DefaultBatchSize, Capacity: DefaultCapacity, Policy: Block}
}

func (c Config) WithBatchSize(n int) Config {
	c.BatchSize = n
	return c
}

func (c Config) WithCapacity(n int) Config {
	c.Capacity = n
	return c
}

func (c Config) WithPolicy(p SendPolicy) Config {
	c.Policy = p
	return c
}

// Validate rejects non-positive batch sizes and negative capacities.
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("worker: batch size must be at least 1, got %d", c.BatchSize)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("worker: capacity cannot be negative, got %d", c.Capacity)
	}
	if c.Policy != Block && c.Policy != FailFast {
		return fmt.Errorf("worker: unknown send policy %v", c.Policy)
	}
	return nil
}

// Logger is the logging interface the worker depends on.
// *logger.Logger satisfies it.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}
