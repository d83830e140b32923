package rdb

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when a file does not start with "REDIS####".
	ErrBadMagic = errors.New("rdb: bad magic header")
	// ErrChecksumMismatch is returned when the trailing CRC64 does not
	// match the recomputed checksum (spec §4.2 "On version >= 5, read and
	// compare the trailing CRC64. Mismatch is fatal unless CRC was
	// recorded as zero").
	ErrChecksumMismatch = errors.New("rdb: checksum mismatch")
	// ErrUnknownOpcode is returned for an opcode byte in a position where
	// only a known set is valid.
	ErrUnknownOpcode = errors.New("rdb: unknown opcode in required position")
	// ErrUnknownExtension names an unrecognized extension-module identifier
	// (spec §4.2 "Failure semantics"). Load does not return it: extension
	// values are decoded whatever their module identifier.
	ErrUnknownExtension = errors.New("rdb: unknown extension-module identifier")
)

// DecodeError wraps a sentinel with the byte offset it was detected at
// (mirroring the teacher's TableError pattern of a struct-with-Unwrap,
// applied here to give load failures the "diagnostic including source
// line" the spec's error-handling design calls for, in this case a byte
// offset instead of a source line).
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rdb: at offset %d: %v", e.Offset, e.Err)
}

func decodeErrf(offset int64, err error) error {
	return &DecodeError{Offset: offset, Err: err}
}
