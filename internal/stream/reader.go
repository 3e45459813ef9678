package stream

import (
	gocipher "crypto/cipher"
	"encoding/binary"
	"io"

	"github.com/relaygo/shadowsocks-go/internal/cipher"
	"github.com/relaygo/shadowsocks-go/internal/replay"
)

type readState int

const (
	readSalt readState = iota
	readLength
	readPayload
	readPayloadOut
)

// Reader is the decrypting half of an encrypted stream (§4.7). It derives
// its session subkey from the first salt_size bytes read from src, then
// alternates decrypting a length-record and a payload-record.
//
// Grounded on the teacher's aeadTunnel.Read, split out into its own type
// and generalized to a four-state machine per
// original_source/src/net/stream.rs's ReadState, so that a caller can read
// in arbitrarily small increments without losing already-decrypted bytes.
type Reader struct {
	src       io.Reader
	method    cipher.Method
	masterKey []byte
	replaySet *replay.Set

	aead  gocipher.AEAD
	nonce cipher.Nonce

	state      readState
	pendingLen int

	// incomingSalt holds the just-read salt until the first length-record
	// has been decrypted, satisfying the "consult the replay set exactly
	// once, right before the first payload is released" invariant.
	incomingSalt []byte

	// payload holds decrypted bytes not yet drained into a caller buffer.
	payload []byte

	lenBuf     []byte
	payloadBuf []byte
}

// NewReader constructs a Reader. replaySet must not be nil.
func NewReader(src io.Reader, method cipher.Method, masterKey []byte, replaySet *replay.Set) *Reader {
	return &Reader{
		src:       src,
		method:    method,
		masterKey: masterKey,
		replaySet: replaySet,
		nonce:     cipher.NewNonce(cipher.NonceSize),
		state:     readSalt,
	}
}

func (r *Reader) Read(p []byte) (int, error) {
	for {
		switch r.state {
		case readSalt:
			if err := r.doReadSalt(); err != nil {
				return 0, err
			}
			r.state = readLength

		case readLength:
			n, err := r.doReadLength()
			if err != nil {
				return 0, err
			}
			r.pendingLen = n
			r.state = readPayload

		case readPayload:
			payload, err := r.doReadPayload(r.pendingLen)
			if err != nil {
				return 0, err
			}
			r.payload = payload
			r.state = readPayloadOut

		case readPayloadOut:
			if len(r.payload) == 0 {
				// zero-length payload record: nothing to deliver.
				r.state = readLength
				continue
			}
			n := copy(p, r.payload)
			r.payload = r.payload[n:]
			if len(r.payload) == 0 {
				r.state = readLength
			}
			return n, nil
		}
	}
}

func (r *Reader) doReadSalt() error {
	if r.aead != nil {
		return nil
	}

	salt := make([]byte, r.method.SaltSize())
	if _, err := io.ReadFull(r.src, salt); err != nil {
		return err
	}

	subkey := make([]byte, r.method.KeySize())
	cipher.HKDFSHA1(r.masterKey, salt, subkey)

	aead, err := r.method.NewAEAD(subkey)
	if err != nil {
		return err
	}

	r.aead = aead
	r.incomingSalt = salt
	r.lenBuf = make([]byte, 2+aead.Overhead())
	r.payloadBuf = make([]byte, cipher.MaxPayload+aead.Overhead())
	return nil
}

func (r *Reader) doReadLength() (int, error) {
	if _, err := io.ReadFull(r.src, r.lenBuf); err != nil {
		return 0, err
	}

	plain, err := r.open(r.lenBuf)
	if err != nil {
		return 0, err
	}
	length := int(binary.BigEndian.Uint16(plain)) & cipher.MaxPayload

	if r.incomingSalt != nil {
		salt := r.incomingSalt
		r.incomingSalt = nil
		if !r.replaySet.CheckAndInsert(salt) {
			return 0, ErrDuplicateSalt
		}
	}

	return length, nil
}

func (r *Reader) doReadPayload(n int) ([]byte, error) {
	buf := r.payloadBuf[:n+r.aead.Overhead()]
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return nil, err
	}
	return r.open(buf)
}

func (r *Reader) open(ciphertext []byte) ([]byte, error) {
	plain, err := r.aead.Open(ciphertext[:0], r.nonce.Bytes(), ciphertext, nil)
	if err != nil {
		return nil, ErrDecryption
	}
	r.nonce.Increment()
	return plain, nil
}
