// Package cryptox holds the primitives used to keep OAuth credentials
// encrypted at rest: argon2id key derivation plus AES-GCM sealing of
// JSON-serialized payloads.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"

	"golang.org/x/crypto/argon2"

	"github.com/hebsync/hebsync/internal/common"
)

// NonceSize is the AES-GCM nonce length used by Seal/Open.
const NonceSize = 12

// DeriveKey stretches a configured secret into a 256-bit AES key using
// argon2id. The same secret and salt always yield the same key.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// SealJSON serializes v to JSON and encrypts it with AES-GCM under key.
// The key must be 16, 24 or 32 bytes. A fresh random nonce is generated
// per call and returned alongside the ciphertext.
func SealJSON(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(NonceSize)
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// OpenJSON decrypts ciphertext produced by SealJSON and unmarshals the
// plaintext into v. The key and nonce must match the sealing call.
func OpenJSON(ciphertext, nonce, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	return json.Unmarshal(plaintext, v)
}
