package stream

import (
	gocipher "crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/relaygo/shadowsocks-go/internal/cipher"
)

type writeState int

const (
	writeSalt writeState = iota
	writeLength
	writePayload
	writePayloadOut
)

// Writer is the encrypting half of an encrypted stream (§4.7). The first
// Write call samples a fresh salt from crypto/rand and derives the
// encrypt-side session subkey; every call thereafter seals exactly one
// record, up to cipher.MaxPayload plaintext bytes, and reports how many
// plaintext bytes were consumed.
//
// Grounded on the teacher's aeadTunnel.Write/write, split into its own
// type per original_source/src/net/stream.rs's WriteState.
type Writer struct {
	dst       io.Writer
	method    cipher.Method
	masterKey []byte

	aead  gocipher.AEAD
	nonce cipher.Nonce

	state   writeState
	pending []byte // plaintext not yet fully sealed+flushed for the current call
	out     []byte // sealed bytes still to be flushed to dst
}

// NewWriter constructs a Writer.
func NewWriter(dst io.Writer, method cipher.Method, masterKey []byte) *Writer {
	return &Writer{
		dst:       dst,
		method:    method,
		masterKey: masterKey,
		nonce:     cipher.NewNonce(cipher.NonceSize),
		state:     writeSalt,
	}
}

// ReadFrom implements io.ReaderFrom so that io.Copy (as used by the relay
// engine's bidirectional copy) drives Write with cipher.MaxPayload-sized
// reads instead of its own default buffer, which would otherwise exceed
// what a single Write call consumes and trip io.ErrShortWrite.
func (w *Writer) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, cipher.MaxPayload)
	var total int64
	for {
		nr, er := r.Read(buf)
		if nr > 0 {
			nw, ew := w.Write(buf[:nr])
			total += int64(nw)
			if ew != nil {
				return total, ew
			}
			if nw != nr {
				return total, io.ErrShortWrite
			}
		}
		if er != nil {
			if er == io.EOF {
				return total, nil
			}
			return total, er
		}
	}
}

func (w *Writer) Write(p []byte) (int, error) {
	length := len(p)
	if length > cipher.MaxPayload {
		length = cipher.MaxPayload
	}
	w.pending = p[:length]

	for {
		switch w.state {
		case writeSalt:
			if err := w.doWriteSalt(); err != nil {
				return 0, err
			}
			w.state = writeLength

		case writeLength:
			if err := w.doWriteLength(length); err != nil {
				return 0, err
			}
			w.state = writePayload

		case writePayload:
			if err := w.doWritePayload(w.pending); err != nil {
				return 0, err
			}
			w.state = writePayloadOut

		case writePayloadOut:
			if err := w.flush(); err != nil {
				return 0, err
			}
			w.state = writeLength
			return length, nil
		}
	}
}

func (w *Writer) doWriteSalt() error {
	if w.aead != nil {
		return nil
	}

	salt := make([]byte, w.method.SaltSize())
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}

	subkey := make([]byte, w.method.KeySize())
	cipher.HKDFSHA1(w.masterKey, salt, subkey)

	aead, err := w.method.NewAEAD(subkey)
	if err != nil {
		return err
	}

	w.aead = aead
	w.out = append(w.out, salt...)
	return nil
}

func (w *Writer) doWriteLength(length int) error {
	var lenBytes [2]byte
	binary.BigEndian.PutUint16(lenBytes[:], uint16(length))
	w.out = w.seal(w.out, lenBytes[:])
	return nil
}

func (w *Writer) doWritePayload(plaintext []byte) error {
	w.out = w.seal(w.out, plaintext)
	return nil
}

func (w *Writer) flush() error {
	for len(w.out) > 0 {
		n, err := w.dst.Write(w.out)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrBrokenPipe
		}
		w.out = w.out[n:]
	}
	return nil
}

func (w *Writer) seal(dst, plaintext []byte) []byte {
	sealed := w.aead.Seal(dst, w.nonce.Bytes(), plaintext, nil)
	w.nonce.Increment()
	return sealed
}
