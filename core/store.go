package core

import (
	"path/filepath"
	"slices"

	"github.com/0xRadioAc7iv/go-kvs/internal"
	"github.com/0xRadioAc7iv/go-kvs/internal/command"
	"github.com/0xRadioAc7iv/go-kvs/internal/logfile"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Store is a key-value store over a single append-only log file.
//
// A Store owns its log file exclusively and is not safe for concurrent use.
// Opening two stores over the same directory is not detected.
type Store struct {
	dir    string
	log    *logfile.Log
	keyDir KeyDir
	logger *zap.Logger
}

// Open opens (creating if needed) the log file named by cfg inside dir and
// replays it to build the KeyDir. dir must already exist. A nil cfg means
// internal.DefaultConfig().
func Open(dir string, cfg *internal.Config) (*Store, error) {
	if cfg == nil {
		cfg = internal.DefaultConfig()
	}

	name := cfg.LogFileName
	if name == "" {
		name = internal.DEFAULT_LOG_FILE_NAME
	}
	if filepath.Base(name) != name {
		return nil, errors.Newf("log file name %q must not contain a directory", name)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	l, err := logfile.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, errors.Wrap(err, "opening store")
	}

	sc := l.Scan()
	keyDir, records, err := Rebuild(sc)
	if err != nil {
		l.Close()
		return nil, errors.Wrapf(err, "opening store at %s", l.Path())
	}

	if ignored := l.Size() - sc.End(); ignored > 0 {
		logger.Warn("replay stopped before end of log",
			zap.String("path", l.Path()),
			zap.Int64("offset", sc.End()),
			zap.Int64("ignored_bytes", ignored),
		)
	}

	logger.Info("store opened",
		zap.String("path", l.Path()),
		zap.Int("records", records),
		zap.Int("keys", len(keyDir)),
		zap.String("size", humanize.Bytes(uint64(l.Size()))),
	)

	return &Store{
		dir:    dir,
		log:    l,
		keyDir: keyDir,
		logger: logger,
	}, nil
}

// Set appends a Set record for key and points the KeyDir at it. The record
// is synced to disk before Set returns.
func (s *Store) Set(key, value string) error {
	if s.log == nil {
		return ErrClosed
	}

	payload, err := command.Encode(command.Set{Key: key, Value: value})
	if err != nil {
		return err
	}

	offset, err := s.log.Append(payload)
	if err != nil {
		return errors.Wrapf(err, "set %q", key)
	}

	// The record is durable from here on; a crash before the KeyDir update
	// is repaired by the replay in Open.
	s.keyDir[key] = offset

	s.logger.Debug("set", zap.String("key", key), zap.Int64("offset", offset))
	return nil
}

// Get returns the current value of key. A key with no value is not an
// error: ok is false and err is nil.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	if s.log == nil {
		return "", false, ErrClosed
	}

	offset, ok := s.keyDir.Lookup(key)
	if !ok {
		return "", false, nil
	}

	value, err = s.readValue(key, offset)
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

// Remove appends a Remove record for key, drops it from the KeyDir and
// returns the value it held. Removing a key with no value fails with a
// *KeyNotFoundError and writes nothing.
func (s *Store) Remove(key string) (string, error) {
	if s.log == nil {
		return "", ErrClosed
	}

	offset, ok := s.keyDir.Lookup(key)
	if !ok {
		return "", &KeyNotFoundError{Key: key}
	}

	value, err := s.readValue(key, offset)
	if err != nil {
		return "", err
	}

	payload, err := command.Encode(command.Remove{Key: key})
	if err != nil {
		return "", err
	}

	at, err := s.log.Append(payload)
	if err != nil {
		return "", errors.Wrapf(err, "remove %q", key)
	}

	delete(s.keyDir, key)

	s.logger.Debug("remove", zap.String("key", key), zap.Int64("offset", at))
	return value, nil
}

// Contains reports whether key currently holds a value without reading the
// log.
func (s *Store) Contains(key string) bool {
	_, ok := s.keyDir.Lookup(key)
	return ok
}

// Len returns the number of live keys.
func (s *Store) Len() int {
	return len(s.keyDir)
}

// Keys returns the live keys in sorted order.
func (s *Store) Keys() []string {
	var keys []string
	for k := range s.keyDir {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// LogSize returns the size of the log file in bytes.
func (s *Store) LogSize() int64 {
	if s.log == nil {
		return 0
	}
	return s.log.Size()
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) LogPath() string {
	if s.log == nil {
		return ""
	}
	return s.log.Path()
}

// Close releases the log file. The KeyDir is discarded with it. Any call
// after Close, including a second Close, fails with ErrClosed.
func (s *Store) Close() error {
	if s.log == nil {
		return ErrClosed
	}

	l := s.log
	s.log = nil
	s.keyDir = nil

	if err := l.Close(); err != nil {
		return err
	}

	s.logger.Info("store closed", zap.String("path", l.Path()))
	return nil
}

func (s *Store) readValue(key string, offset int64) (string, error) {
	cmd, _, err := s.log.ReadAt(offset)
	if err != nil {
		return "", errors.Wrapf(err, "reading %q", key)
	}

	switch c := cmd.(type) {
	case command.Set:
		if c.Key != key {
			return "", errors.Wrapf(ErrCorruptIndex, "offset %d for %q holds a set for %q", offset, key, c.Key)
		}
		return c.Value, nil
	case command.Remove:
		return "", errors.Wrapf(ErrCorruptIndex, "offset %d for %q holds a remove for %q", offset, key, c.Key)
	default:
		return "", errors.Wrapf(ErrCorruptIndex, "offset %d for %q holds %T", offset, key, cmd)
	}
}
