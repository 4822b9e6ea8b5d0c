// Package kvs is an embedded, persistent key-value store backed by an
// append-only log file.
//
// Every Set and Remove is appended to the log and synced before the call
// returns. An in-memory index from key to log offset is rebuilt by replaying
// the log whenever the store is opened.
//
// Example:
//
//	err := kvs.WithStore("./data", func(s *kvs.Store) error {
//	    if err := s.Set("foo", "bar"); err != nil {
//	        return err
//	    }
//	    val, ok, err := s.Get("foo")
//	    ...
//	})
//
// A Store is not safe for concurrent use, and two stores must not be opened
// over the same directory at once.
package kvs
