package crypto

import "errors"

// ErrInvalidLength is returned when a fixed-width byte buffer has the wrong size.
var ErrInvalidLength = errors.New("crypto: invalid byte length")

// ErrInvalidSignature is returned when a signature fails to verify.
var ErrInvalidSignature = errors.New("crypto: invalid signature")
