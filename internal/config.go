package internal

import "go.uber.org/zap"

type Config struct {
	LogFileName string
	Logger      *zap.Logger
}

const DEFAULT_LOG_FILE_NAME = "log.data"

func DefaultConfig() *Config {
	return &Config{
		LogFileName: DEFAULT_LOG_FILE_NAME,
		Logger:      zap.NewNop(),
	}
}
