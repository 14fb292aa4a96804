package adaptive

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the size of keys produced by DeriveKey.
const KeySize = 32

// DeriveKey expands secret into a KeySize key bound to purpose.
//
// The same secret and purpose always produce the same key, so a value
// sealed in one process can be opened by the next one.
func DeriveKey(secret []byte, purpose string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.New("adaptive: empty secret")
	}

	key := make([]byte, KeySize)
	r := hkdf.New(sha256.New, secret, nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
