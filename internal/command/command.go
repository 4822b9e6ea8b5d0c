package command

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// Command is a single mutation recorded in the log. It is one of Set or
// Remove; no other implementations exist.
type Command interface {
	isCommand()
}

// Set records that Key now holds Value.
type Set struct {
	Key   string
	Value string
}

// Remove records that Key no longer holds a value.
type Remove struct {
	Key string
}

func (Set) isCommand() {}
func (Remove) isCommand() {}

const (
	TagSet    byte = 0x01
	TagRemove byte = 0x02
)

// MaxPayloadSize is the largest encoded command a record can carry. The
// record length prefix is a uint16.
const MaxPayloadSize = 1<<16 - 1

// Tag (1) + KeyLen (2)
const removeHeaderSize = 3

// Tag (1) + KeyLen (2) + ValueLen (2)
const setHeaderSize = 5

var (
	ErrCorruptRecord = errors.New("corrupt record")
	ErrTooLarge      = errors.New("encoded command exceeds maximum record size")
)

// Encode serializes a command into its payload form:
//
//	Set    := 0x01 <key_len:uint16><key><val_len:uint16><val>
//	Remove := 0x02 <key_len:uint16><key>
//
// Lengths are big-endian. The encoding is deterministic, so encoding the
// same command twice yields identical bytes.
func Encode(cmd Command) ([]byte, error) {
	var buf []byte

	switch c := cmd.(type) {
	case Set:
		size := setHeaderSize + len(c.Key) + len(c.Value)
		if size > MaxPayloadSize {
			return nil, errors.Wrapf(ErrTooLarge, "set %q: %d bytes", c.Key, size)
		}
		buf = make([]byte, 0, size)
		buf = append(buf, TagSet)
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.Key)))
		buf = append(buf, c.Key...)
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.Value)))
		buf = append(buf, c.Value...)
	case Remove:
		size := removeHeaderSize + len(c.Key)
		if size > MaxPayloadSize {
			return nil, errors.Wrapf(ErrTooLarge, "remove %q: %d bytes", c.Key, size)
		}
		buf = make([]byte, 0, size)
		buf = append(buf, TagRemove)
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(c.Key)))
		buf = append(buf, c.Key...)
	default:
		return nil, errors.AssertionFailedf("unknown command type %T", cmd)
	}

	return buf, nil
}

// Decode is the inverse of Encode. It rejects unknown tags, fields that run
// past the end of data and any trailing bytes with ErrCorruptRecord.
func Decode(data []byte) (Command, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrCorruptRecord, "empty payload")
	}

	tag, rest := data[0], data[1:]

	switch tag {
	case TagSet:
		key, rest, err := readString(rest)
		if err != nil {
			return nil, errors.Wrap(err, "set key")
		}
		value, rest, err := readString(rest)
		if err != nil {
			return nil, errors.Wrap(err, "set value")
		}
		if len(rest) != 0 {
			return nil, errors.Wrapf(ErrCorruptRecord, "%d trailing bytes after set", len(rest))
		}
		return Set{Key: key, Value: value}, nil
	case TagRemove:
		key, rest, err := readString(rest)
		if err != nil {
			return nil, errors.Wrap(err, "remove key")
		}
		if len(rest) != 0 {
			return nil, errors.Wrapf(ErrCorruptRecord, "%d trailing bytes after remove", len(rest))
		}
		return Remove{Key: key}, nil
	default:
		return nil, errors.Wrapf(ErrCorruptRecord, "unknown tag 0x%02x", tag)
	}
}

func readString(data []byte) (string, []byte, error) {
	if len(data) < 2 {
		return "", nil, errors.Wrap(ErrCorruptRecord, "short length field")
	}
	n := int(binary.BigEndian.Uint16(data))
	data = data[2:]
	if len(data) < n {
		return "", nil, errors.Wrapf(ErrCorruptRecord, "field wants %d bytes, have %d", n, len(data))
	}
	return string(data[:n]), data[n:], nil
}
