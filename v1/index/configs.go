package index

// Config tunes the Manager.
type Config struct {
	// UpsertConcurrency bounds how many collection groups of one InsertMany
	// or DeleteMany call are written at the same time. Values below 1 mean
	// DefaultUpsertConcurrency.
	UpsertConcurrency int `yaml:"upsert_concurrency" env:"VEVTOR_UPSERT_CONCURRENCY"`
}

// DefaultUpsertConcurrency is used when Config.UpsertConcurrency is unset.
const DefaultUpsertConcurrency = 4

// DefaultConfig returns the configuration used by NewManager when none is given.
func DefaultConfig() Config {
	return Config{UpsertConcurrency: DefaultUpsertConcurrency}
}

// WithUpsertConcurrency sets Config.UpsertConcurrency.
func (c Config) WithUpsertConcurrency(n int) Config {
	c.UpsertConcurrency = n
	return c
}

// Logger is the logging interface the Manager depends on.
// *logger.Logger satisfies it.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}
