package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrCiphertext is returned when sealed data is malformed or was not produced under this key
var ErrCiphertext = errors.New("invalid ciphertext")

// TokenCipher seals secrets such as bank access tokens for storage
type TokenCipher struct {
	aead cipher.AEAD
}

// NewTokenCipher creates an AES-GCM cipher from a 16, 24 or 32 byte key
func NewTokenCipher(key []byte) (*TokenCipher, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &TokenCipher{aead: aead}, nil
}

// NewTokenCipherFromHex decodes a hex key and creates the cipher
func NewTokenCipherFromHex(hexKey string) (*TokenCipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}
	return NewTokenCipher(key)
}

// Seal encrypts plaintext and returns hex(nonce || ciphertext)
func (c *TokenCipher) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("input data is empty")
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// Open reverses Seal
func (c *TokenCipher) Open(sealed string) (string, error) {
	data, err := hex.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCiphertext, err)
	}
	n := c.aead.NonceSize()
	if len(data) < n+c.aead.Overhead() {
		return "", fmt.Errorf("%w: %d bytes is too short", ErrCiphertext, len(data))
	}
	plaintext, err := c.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCiphertext, err)
	}
	return string(plaintext), nil
}
