package cipher

import (
	"crypto/md5" //nolint:gosec // required for OpenSSL-compatible EVP_BytesToKey, not used for security here
	"crypto/sha1" //nolint:gosec // required by the ss-subkey HKDF label, not used for security here
	"io"

	"golang.org/x/crypto/hkdf"
)

// subkeyInfo is the fixed HKDF info label shared by every shadowsocks
// implementation in the wild; changing it would break interoperability.
var subkeyInfo = []byte("ss-subkey")

// DeriveMasterKey derives the long-lived master key from the pre-shared
// password using OpenSSL's EVP_BytesToKey with MD5 and an empty salt:
// D0 = "", Di = MD5(D(i-1) || password), output D1 || D2 || ... truncated
// to len(out).
//
// Grounded on original_source/src/crypto/mod.rs::derive_key.
func DeriveMasterKey(password string, out []byte) {
	var prev []byte
	var filled int

	for filled < len(out) {
		h := md5.New() //nolint:gosec
		h.Write(prev)
		h.Write([]byte(password))
		d := h.Sum(nil)

		n := copy(out[filled:], d)
		filled += n
		prev = d
	}
}

// HKDFSHA1 derives a per-connection, per-direction session subkey from the
// master key and a fresh salt, per RFC 5869 with SHA-1 and the
// "ss-subkey" info label.
//
// Grounded on the teacher's aead.go::hkdfSHA1.
func HKDFSHA1(masterKey, salt, out []byte) {
	r := hkdf.New(sha1.New, masterKey, salt, subkeyInfo) //nolint:gosec
	if _, err := io.ReadFull(r, out); err != nil {
		// hkdf.New only fails this way for a requested length exceeding
		// 255*hash size, which never happens for any supported method.
		panic(err)
	}
}
