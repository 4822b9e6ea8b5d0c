package kvs

import (
	"github.com/0xRadioAc7iv/go-kvs/core"
	"github.com/0xRadioAc7iv/go-kvs/internal"
	"github.com/cockroachdb/errors"
)

type Store = core.Store

type KeyNotFoundError = core.KeyNotFoundError

var (
	ErrKeyNotFound   = core.ErrKeyNotFound
	ErrCorruptRecord = core.ErrCorruptRecord
	ErrCorruptIndex  = core.ErrCorruptIndex
	ErrTooLarge      = core.ErrTooLarge
	ErrClosed        = core.ErrClosed
	ErrIO            = core.ErrIO
)

const DefaultLogFileName = internal.DEFAULT_LOG_FILE_NAME

// Open opens the store in dir, creating its log file if needed. The caller
// must Close the returned Store.
func Open(dir string, opts ...Option) (*Store, error) {
	cfg := internal.DefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return core.Open(dir, cfg)
}

// WithStore opens the store in dir, passes it to fn and closes it again,
// whether fn returns normally, returns an error or panics. An error from fn
// takes precedence over an error from Close. fn may close the store
// itself.
func WithStore(dir string, fn func(*Store) error, opts ...Option) (err error) {
	s, err := Open(dir, opts...)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := s.Close()
		if errors.Is(closeErr, ErrClosed) {
			closeErr = nil
		}
		if closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "closing store")
		}
	}()

	return fn(s)
}
