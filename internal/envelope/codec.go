// Package envelope implements the symmetric encryption used for every
// message exchanged with collaborating agents.
//
// Ciphertext layout is nonce||sealed so a payload is self-contained; the
// AES-256 key is derived from the configured pre-shared secret with
// HKDF-SHA256 so the raw secret is never used directly.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrDecrypt reports a malformed or tampered payload. The dispatcher treats
// it as a task-level failure, never as a fatal one.
var ErrDecrypt = errors.New("envelope: decryption failed")

const hkdfInfo = "asset-engine-envelope"

// Codec encrypts and decrypts envelope payloads. Safe for concurrent use.
type Codec struct {
	gcm cipher.AEAD
}

// NewCodec derives an AES-256-GCM codec from the pre-shared secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("envelope: empty secret")
	}

	r := hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("envelope: key derivation failed: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	return &Codec{gcm: gcm}, nil
}

// Encrypt seals plaintext and returns nonce||ciphertext.
func (c *Codec) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("envelope: failed to generate nonce: %w", err)
	}

	return c.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a payload produced by Encrypt. Any malformed or tampered
// input yields an error wrapping ErrDecrypt.
func (c *Codec) Decrypt(data []byte) ([]byte, error) {
	nonceSize := c.gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}

	plaintext, err := c.gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return plaintext, nil
}
