package core

import (
	"github.com/0xRadioAc7iv/go-kvs/internal/command"
	"github.com/0xRadioAc7iv/go-kvs/internal/logfile"
	"github.com/cockroachdb/errors"
)

// KeyDir is the in-memory index mapping each live key to the offset of the
// most recent Set record for it in the log.
//
// It is never written to disk. Open rebuilds it by replaying the whole log,
// and every later Set or Remove keeps it current.
type KeyDir map[string]int64

// Lookup returns the offset of the record holding the current value of key.
func (kd KeyDir) Lookup(key string) (int64, bool) {
	offset, ok := kd[key]
	return offset, ok
}

// Rebuild replays every record the scanner yields, in log order. A Set
// points the key at its record, a Remove drops the key. There are no
// timestamps; the later record always wins.
//
// It also returns the number of records replayed.
func Rebuild(sc *logfile.Scanner) (KeyDir, int, error) {
	keyDir := make(KeyDir)
	records := 0

	for sc.Next() {
		switch c := sc.Command().(type) {
		case command.Set:
			keyDir[c.Key] = sc.Offset()
		case command.Remove:
			delete(keyDir, c.Key)
		default:
			return nil, records, errors.AssertionFailedf("unknown command type %T at offset %d", c, sc.Offset())
		}
		records++
	}

	if err := sc.Err(); err != nil {
		return nil, records, errors.Wrap(err, "replaying log")
	}

	return keyDir, records, nil
}
