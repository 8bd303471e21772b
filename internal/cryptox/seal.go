// Package cryptox seals small documents, such as history exports, with a
// passphrase. The key is derived with argon2id and the document is
// encrypted with AES-256-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	sealVersion = 1
	saltSize    = 16
	keySize     = 32
)

var (
	ErrEmptyPassphrase = errors.New("passphrase is empty")
	// ErrOpen covers a wrong passphrase as well as tampered data.
	ErrOpen = errors.New("cannot open sealed document")
)

// Sealed is the JSON envelope written by Seal.
type Sealed struct {
	Version    int    `json:"v"`
	KDF        string `json:"kdf"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// DeriveKey stretches passphrase into a 256-bit key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

// randRead is a seam for tests.
var randRead = rand.Read

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext under passphrase and returns the JSON envelope.
// Every call uses a fresh salt and nonce.
func Seal(plaintext, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	salt := make([]byte, saltSize)
	if _, err := randRead(salt); err != nil {
		return nil, fmt.Errorf("salt: %w", err)
	}

	key := DeriveKey(passphrase, salt)
	defer wipe(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := randRead(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	return json.Marshal(Sealed{
		Version:    sealVersion,
		KDF:        "argon2id",
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, plaintext, nil),
	})
}

// Open reverses Seal.
func Open(data, passphrase []byte) ([]byte, error) {
	var env Sealed
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if env.Version != sealVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrOpen, env.Version)
	}

	key := DeriveKey(passphrase, env.Salt)
	defer wipe(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(env.Nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: bad nonce", ErrOpen)
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}

// wipe zeroes key material once it is no longer needed.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
