// Package vault encrypts third-party API keys before they are persisted.
// The stored form is base64(nonce || ciphertext) produced by AES-256-GCM
// with a fresh random nonce per call. Decryption failures after a key
// rotation surface as ErrDecryptFailed, never as garbage plaintext.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// MinKeyLength is the minimum accepted length of the configured
	// encryption key, in characters.
	MinKeyLength = 32

	keyIterations = 10000
	keySize       = 32 // AES-256

	// Fixed application salt for key derivation. Rotating the
	// encryption key invalidates all stored ciphertexts; users must
	// reconnect.
	keySalt = "life-designer-credential-vault-v1"
)

var (
	// ErrKeyTooShort indicates a missing or too-short encryption key.
	// This is a deployment configuration error, not a runtime one.
	ErrKeyTooShort = errors.New("vault: encryption key missing or shorter than 32 characters")

	// ErrCiphertextTooShort indicates a stored value too short to
	// contain a nonce.
	ErrCiphertextTooShort = errors.New("vault: ciphertext too short")

	// ErrDecryptFailed indicates authentication failure: wrong key
	// (typically after a rotation) or tampered data.
	ErrDecryptFailed = errors.New("vault: decryption failed")
)

// Vault performs symmetric encryption of stored credentials.
type Vault struct {
	aead cipher.AEAD
}

// New derives an AES-256 key from the configured secret and returns a
// ready-to-use Vault. Fails with ErrKeyTooShort when the secret does not
// meet the minimum length.
func New(secret string) (*Vault, error) {
	if len(secret) < MinKeyLength {
		return nil, ErrKeyTooShort
	}

	key := pbkdf2.Key([]byte(secret), []byte(keySalt), keyIterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: create gcm: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt encrypts plaintext and returns base64(nonce || ciphertext).
func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("vault: generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Malformed input returns
// ErrCiphertextTooShort; authentication failure returns ErrDecryptFailed.
func (v *Vault) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	nonceSize := v.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrCiphertextTooShort
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}

	return string(plaintext), nil
}

// Preview returns a truncated prefix of a secret for log correlation.
// Never log the full value.
func Preview(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
