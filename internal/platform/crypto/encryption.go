package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// FieldCipher seals individual column values with AES-256-GCM. Without a key it
// passes values through unchanged so development databases stay readable.
type FieldCipher struct {
	aead cipher.AEAD
}

func New(key string) (*FieldCipher, error) {
	if key == "" {
		return &FieldCipher{}, nil
	}
	decoded, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &FieldCipher{aead: aead}, nil
}

func (c *FieldCipher) Configured() bool {
	return c != nil && c.aead != nil
}

// Seal returns nonce||ciphertext. Empty input yields nil so optional columns
// stay NULL.
func (c *FieldCipher) Seal(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	if !c.Configured() {
		return []byte(value), nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, []byte(value), nil), nil
}

func (c *FieldCipher) Open(sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	if !c.Configured() {
		return string(sealed), nil
	}
	size := c.aead.NonceSize()
	if len(sealed) < size {
		return "", ErrCiphertextTooShort
	}
	plain, err := c.aead.Open(nil, sealed[:size], sealed[size:], nil)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plain), nil
}

// decodeKey accepts 64 hex characters, standard base64 or 32 raw bytes.
func decodeKey(raw string) ([]byte, error) {
	candidates := [][]byte{}
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			candidates = append(candidates, decoded)
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		candidates = append(candidates, decoded)
	}
	candidates = append(candidates, []byte(raw))
	for _, key := range candidates {
		if len(key) == 32 {
			return key, nil
		}
	}
	return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding")
}
