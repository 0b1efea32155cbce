package codec

import "errors"

// Failure kinds for decoding untrusted byte streams (spec §4.2).
var (
	ErrTruncated    = errors.New("codec: truncated input")
	ErrUnknownTag   = errors.New("codec: unknown tag")
	ErrOverflow     = errors.New("codec: length overflow")
	ErrInvalidValue = errors.New("codec: invalid value")
)
