// Package crypto implements the authenticated-encryption codec that protects
// stored wizard form data at rest. Form data contains merchant PII (addresses,
// phone numbers), so the codec uses AES-256-GCM: the authentication tag makes
// tampering and wrong-key decryption detectable instead of silently yielding
// garbage.
//
// Envelope format (version 1):
//
//	v1:<hex nonce>:<hex auth tag>:<base64 ciphertext>
//
// A fresh random 96-bit nonce is generated per encryption, so two encryptions
// of the same plaintext never produce the same envelope.
//
// Lazy migration: Decrypt returns inputs without the "v1:" prefix unchanged.
// Rows written before encryption was introduced stay readable without a
// blocking data migration, and are re-encrypted the next time they are saved.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// envelopePrefix versions the on-disk format for future key/cipher rotation.
	envelopePrefix = "v1:"

	nonceSize = 12 // 96 bits, the recommended GCM nonce size
	tagSize   = 16 // 128-bit authentication tag
	keySize   = 32 // AES-256
)

var (
	// ErrInvalidFormat is returned when an envelope carries the version prefix
	// but does not parse into exactly nonce:tag:ciphertext.
	ErrInvalidFormat = errors.New("invalid encrypted data format")

	// ErrDecryptFailed is returned when authentication fails during
	// decryption: the data was tampered with or a different key was used.
	ErrDecryptFailed = errors.New("decryption failed: authentication error")
)

// Codec encrypts and decrypts form-data payloads with a single symmetric key
// held for the process lifetime. It is safe for concurrent use.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec builds a Codec from a 64-character hex key (32 bytes). Key material
// problems are configuration errors: they fail here, at startup, before any
// data operation is attempted.
func NewCodec(hexKey string) (*Codec, error) {
	if strings.TrimSpace(hexKey) == "" {
		return nil, errors.New("encryption key is required; generate 32 random bytes and supply them hex-encoded")
	}
	if len(hexKey) != keySize*2 {
		return nil, fmt.Errorf("encryption key must be %d hex characters (%d bytes), got %d", keySize*2, keySize, len(hexKey))
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCMWithTagSize(block, tagSize)
	if err != nil {
		return nil, err
	}
	return &Codec{aead: aead}, nil
}

// IsEncrypted reports whether s carries the versioned envelope prefix.
func (c *Codec) IsEncrypted(s string) bool {
	return strings.HasPrefix(s, envelopePrefix)
}

// Encrypt seals plaintext under a fresh random nonce and returns the
// serialized envelope. Empty plaintext is valid and round-trips exactly.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// Seal appends ciphertext||tag; split them for the envelope layout.
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ct := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return envelopePrefix +
		hex.EncodeToString(nonce) + ":" +
		hex.EncodeToString(tag) + ":" +
		base64.StdEncoding.EncodeToString(ct), nil
}

// Decrypt opens an envelope produced by Encrypt. Inputs without the version
// prefix are returned unchanged (lazy-migration contract). A malformed
// envelope yields ErrInvalidFormat; an authentication failure (wrong key or
// tampered data) yields ErrDecryptFailed.
func (c *Codec) Decrypt(input string) (string, error) {
	if !c.IsEncrypted(input) {
		return input, nil
	}

	parts := strings.Split(strings.TrimPrefix(input, envelopePrefix), ":")
	if len(parts) != 3 {
		return "", ErrInvalidFormat
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceSize {
		return "", ErrInvalidFormat
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagSize {
		return "", ErrInvalidFormat
	}
	ct, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return "", ErrInvalidFormat
	}

	plaintext, err := c.aead.Open(nil, nonce, append(ct, tag...), nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
