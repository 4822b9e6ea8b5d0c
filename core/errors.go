package core

import (
	"fmt"

	"github.com/0xRadioAc7iv/go-kvs/internal/command"
	"github.com/0xRadioAc7iv/go-kvs/internal/logfile"
	"github.com/cockroachdb/errors"
)

var (
	// ErrKeyNotFound is matched by every *KeyNotFoundError. Only Remove
	// returns it; Get reports a missing key through its bool result.
	ErrKeyNotFound = errors.New("key not found")

	// ErrCorruptIndex means the KeyDir pointed at a record that is not a Set
	// for the requested key.
	ErrCorruptIndex = errors.New("corrupt index")

	ErrClosed = errors.New("store is closed")

	ErrCorruptRecord = command.ErrCorruptRecord
	ErrTooLarge      = command.ErrTooLarge
	ErrIO            = logfile.ErrIO
)

// KeyNotFoundError is returned by Remove when the key holds no value.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %q", e.Key)
}

func (e *KeyNotFoundError) Unwrap() error {
	return ErrKeyNotFound
}
