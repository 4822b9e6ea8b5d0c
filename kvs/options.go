package kvs

import (
	"github.com/0xRadioAc7iv/go-kvs/internal"
	"go.uber.org/zap"
)

type Option func(*internal.Config)

// WithLogFileName sets the name of the log file inside the store directory.
// The default is "log.data".
func WithLogFileName(name string) Option {
	return func(c *internal.Config) {
		c.LogFileName = name
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *internal.Config) {
		c.Logger = logger
	}
}
