package stream

import "errors"

// Fatal, connection-terminating errors surfaced by the encrypted stream.
// Grounded on original_source/src/net/stream.rs's Error enum.
var (
	// ErrDuplicateSalt is returned when a salt has already been accepted
	// by the shared replay set.
	ErrDuplicateSalt = errors.New("stream: duplicate salt (replay detected)")

	// ErrDecryption is returned when an AEAD open fails: a forged,
	// truncated, or otherwise corrupted record.
	ErrDecryption = errors.New("stream: AEAD decryption failed")

	// ErrEncryption names an AEAD seal failure. Writer never returns it:
	// crypto/cipher's Seal reports no error.
	ErrEncryption = errors.New("stream: AEAD encryption failed")

	// ErrBrokenPipe is returned when the transport accepts a write call
	// but reports zero bytes written while data remains buffered.
	ErrBrokenPipe = errors.New("stream: broken pipe")
)
