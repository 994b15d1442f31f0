package codec

import (
	"fmt"

	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/internal/options"
)

// Config holds caller-imposed limits for one Encode or Decode call.
//
// The zero value imposes no limits.
type Config struct {
	maxDepth     int
	maxInputSize int
}

// Option configures a Config.
type Option = options.Option[*Config]

// NewConfig creates a Config from opts.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MaxDepth returns the nesting limit, 0 meaning unlimited.
func (c *Config) MaxDepth() int {
	return c.maxDepth
}

// MaxInputSize returns the decode input size limit, 0 meaning unlimited.
func (c *Config) MaxInputSize() int {
	return c.maxInputSize
}

// WithMaxDepth limits the container nesting depth below the envelope.
// The payload's own container is depth 1. Zero disables the limit.
func WithMaxDepth(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("invalid max depth: %d", n)
		}
		c.maxDepth = n

		return nil
	})
}

// WithMaxInputSize rejects decode input longer than n bytes. Zero disables the limit.
func WithMaxInputSize(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("invalid max input size: %d", n)
		}
		c.maxInputSize = n

		return nil
	})
}

func (c *Config) checkDepth(depth int) error {
	if c.maxDepth > 0 && depth > c.maxDepth {
		return fmt.Errorf("%w: depth %d, limit %d", errs.ErrMaxDepthExceeded, depth, c.maxDepth)
	}

	return nil
}
