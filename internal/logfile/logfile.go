package logfile

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/0xRadioAc7iv/go-kvs/internal/command"
	"github.com/cockroachdb/errors"
)

// LengthPrefixSize is the size of the big-endian uint16 that precedes every
// payload in the log.
const LengthPrefixSize = 2

// ErrIO marks every failure that came from the filesystem. Errors carrying it
// still wrap the underlying cause, so errors.Is(err, io.ErrUnexpectedEOF)
// keeps working for short reads.
var ErrIO = errors.New("log file I/O error")

// Log is an append-only file of length-prefixed records:
//
//	<length:uint16><payload>
//
// A record's offset is the position of its length prefix.
type Log struct {
	file *os.File
	path string
	size int64
}

// Open opens the log at path, creating it if it does not exist.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, ioError(err, "open %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ioError(err, "stat %s", path)
	}

	return &Log{file: f, path: path, size: info.Size()}, nil
}

// Append writes payload as a new record at the end of the log and syncs the
// file before returning the offset the record starts at.
func (l *Log) Append(payload []byte) (int64, error) {
	if len(payload) > command.MaxPayloadSize {
		return 0, errors.Wrapf(command.ErrTooLarge, "payload of %d bytes", len(payload))
	}

	offset, err := l.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, ioError(err, "seek to end of %s", l.path)
	}

	buf := make([]byte, 0, LengthPrefixSize+len(payload))
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(payload)))
	buf = append(buf, payload...)

	n, err := l.file.Write(buf)
	if err != nil {
		l.size = offset + int64(n)
		return 0, ioError(err, "append at offset %d", offset)
	}

	if err := l.file.Sync(); err != nil {
		l.size = offset + int64(n)
		return 0, ioError(err, "sync %s", l.path)
	}

	l.size = offset + int64(n)
	return offset, nil
}

// ReadAt decodes the record starting at offset. It returns the command and
// the offset of the record that follows it.
//
// A record cut short by the end of the file fails with ErrIO wrapping io.EOF
// or io.ErrUnexpectedEOF. A payload that does not decode fails with
// command.ErrCorruptRecord.
func (l *Log) ReadAt(offset int64) (command.Command, int64, error) {
	var header [LengthPrefixSize]byte
	if err := l.readFull(header[:], offset); err != nil {
		return nil, 0, ioError(err, "read length at offset %d", offset)
	}

	length := int64(binary.BigEndian.Uint16(header[:]))
	payload := make([]byte, length)
	if err := l.readFull(payload, offset+LengthPrefixSize); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, 0, ioError(err, "read %d byte payload at offset %d", length, offset)
	}

	cmd, err := command.Decode(payload)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "record at offset %d", offset)
	}

	return cmd, offset + LengthPrefixSize + length, nil
}

// Size returns the length of the log in bytes as last observed by Open or
// Append.
func (l *Log) Size() int64 {
	return l.size
}

func (l *Log) Path() string {
	return l.path
}

func (l *Log) Sync() error {
	if err := l.file.Sync(); err != nil {
		return ioError(err, "sync %s", l.path)
	}
	return nil
}

// Close syncs the log and releases the file. The file is closed even when
// the sync fails.
func (l *Log) Close() error {
	if err := l.Sync(); err != nil {
		l.file.Close()
		return err
	}
	if err := l.file.Close(); err != nil {
		return ioError(err, "close %s", l.path)
	}
	return nil
}

// Scan returns a Scanner positioned at the first record of the log.
func (l *Log) Scan() *Scanner {
	return &Scanner{log: l}
}

// readFull fills buf from offset. Reading nothing before the end of the file
// yields io.EOF, reading part of buf yields io.ErrUnexpectedEOF.
func (l *Log) readFull(buf []byte, offset int64) error {
	n, err := l.file.ReadAt(buf, offset)
	if n == len(buf) {
		return nil
	}
	if errors.Is(err, io.EOF) && n > 0 {
		return io.ErrUnexpectedEOF
	}
	if err == nil {
		return io.ErrUnexpectedEOF
	}
	return err
}

func ioError(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrIO)
}

// IsEndOfLog reports whether err, returned by ReadAt, means the scan has
// reached the usable end of the log: either the file ended (cleanly or in
// the middle of a record) or the next payload does not decode. The two
// cases cannot be told apart.
func IsEndOfLog(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, command.ErrCorruptRecord)
}
