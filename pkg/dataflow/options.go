package dataflow

// Option configures the behavior of pipeline stages.
type Option func(*config)

type config struct {
	bufferSize int
}

func newConfig(opts []Option) *config {
	cfg := &config{
		bufferSize: 0,
	}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// WithBufferSize sets the buffer size for the output channel of a stage.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.bufferSize = n
		}
	}
}
