package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"fjacquet/transfer-assistant/internal/models"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrNoKey is returned when an Encryptor is created without a passphrase.
var ErrNoKey = errors.New("encryption key is required")

// Encryptor seals strings with NaCl secretbox. The key is the SHA-256 digest
// of a passphrase; ciphertexts are base64(nonce || box).
type Encryptor struct {
	key [32]byte
}

// NewEncryptor derives the secretbox key from passphrase.
func NewEncryptor(passphrase string) (*Encryptor, error) {
	if passphrase == "" {
		return nil, ErrNoKey
	}
	return &Encryptor{key: sha256.Sum256([]byte(passphrase))}, nil
}

// Encrypt seals plaintext with a fresh random nonce.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &e.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext encoding: %w", err)
	}
	if len(data) < nonceSize+secretbox.Overhead {
		return "", errors.New("ciphertext too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], data[:nonceSize])
	plain, ok := secretbox.Open(nil, data[nonceSize:], &nonce, &e.key)
	if !ok {
		return "", errors.New("decryption failed")
	}
	return string(plain), nil
}

// Protector encrypts the account number and IBAN of records before they are
// stored. Validation must run on the plaintext record.
type Protector struct {
	enc *Encryptor
}

// NewProtector creates a Protector. A nil Encryptor makes Protect a copy.
func NewProtector(enc *Encryptor) *Protector {
	return &Protector{enc: enc}
}

// Protect returns a copy of tx with its sensitive fields encrypted.
func (p *Protector) Protect(tx models.Transaction) (models.Transaction, error) {
	if p == nil || p.enc == nil {
		return tx.WithSensitive(func(s string) string { return s }), nil
	}

	var firstErr error
	out := tx.WithSensitive(func(s string) string {
		sealed, err := p.enc.Encrypt(s)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return sealed
	})
	if firstErr != nil {
		return models.Transaction{}, fmt.Errorf("failed to protect record: %w", firstErr)
	}
	return out, nil
}

// Reveal reverses Protect.
func (p *Protector) Reveal(tx models.Transaction) (models.Transaction, error) {
	if p == nil || p.enc == nil {
		return tx.WithSensitive(func(s string) string { return s }), nil
	}

	var firstErr error
	out := tx.WithSensitive(func(s string) string {
		plain, err := p.enc.Decrypt(s)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return plain
	})
	if firstErr != nil {
		return models.Transaction{}, fmt.Errorf("failed to reveal record: %w", firstErr)
	}
	return out, nil
}
