package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryConfig carries the backoff knobs, populated from the environment
// by the config layer; the envDefault tags are the single source of
// defaults.
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"DELAY" envDefault:"100ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.MaxDelay(rc.MaxDelay),
	}
}

// Do runs op with the configured backoff, stopping early when ctx is
// cancelled.
func Do(ctx context.Context, cfg RetryConfig, op func() error) error {
	opts := append(cfg.ToRetryOptions(),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	return retry.Do(op, opts...)
}
