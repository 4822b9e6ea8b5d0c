package logfile

import "github.com/0xRadioAc7iv/go-kvs/internal/command"

// Scanner walks the log from offset 0, one record at a time.
//
//	sc := log.Scan()
//	for sc.Next() {
//	    use(sc.Command(), sc.Offset())
//	}
//	if err := sc.Err(); err != nil { ... }
//
// The scan stops quietly at the first record that is cut short or does not
// decode; only other I/O failures are reported by Err.
type Scanner struct {
	log    *Log
	next   int64
	offset int64
	cmd    command.Command
	err    error
	done   bool
}

// Next advances to the next record. It returns false once the scan is over.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	cmd, next, err := s.log.ReadAt(s.next)
	if err != nil {
		s.done = true
		s.cmd = nil
		if !IsEndOfLog(err) {
			s.err = err
		}
		return false
	}

	s.cmd = cmd
	s.offset = s.next
	s.next = next
	return true
}

// Command returns the record read by the last successful Next.
func (s *Scanner) Command() command.Command {
	return s.cmd
}

// Offset returns the offset of the record read by the last successful Next.
func (s *Scanner) Offset() int64 {
	return s.offset
}

// End returns the offset just past the last record read. After the scan is
// over, bytes between End and the log size were not replayed.
func (s *Scanner) End() int64 {
	return s.next
}

func (s *Scanner) Err() error {
	return s.err
}
