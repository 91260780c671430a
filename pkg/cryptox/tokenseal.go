// Package cryptox protects the persisted bearer credential at rest. The
// terminal keeps a single device secret on disk; the storage key is derived
// from it and tokens are sealed with AES-256-GCM before they touch sqlite.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/argon2"
)

var (
	sealKeyOnce sync.Once
	sealKey     []byte
	secretPath  string = "" // Can be set via SetDeviceSecretPath before first use
)

// argon2id parameters for deriving the storage key from the device secret.
// The salt is a fixed context string: the secret itself is high-entropy and
// per-device, the derivation only needs domain separation.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
	kdfKeyLen  = 32
)

var kdfContext = []byte("corresponsal-token-store")

// SetDeviceSecretPath configures where to load the device secret from.
// This must be called before any seal/open operations.
// If not set, the secret is read from the TERMINAL_DEVICE_SECRET environment variable.
func SetDeviceSecretPath(path string) {
	secretPath = path
}

// loadSealKey derives the 32-byte AES-256 key from either:
// 1. File specified by SetDeviceSecretPath (if set)
// 2. TERMINAL_DEVICE_SECRET environment variable
// 3. An ephemeral random secret for development (tokens won't survive restart)
func loadSealKey() ([]byte, error) {
	var secret []byte

	if secretPath != "" {
		data, err := os.ReadFile(secretPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read device secret file: %w", err)
		}
		secret = data
	} else if env := os.Getenv("TERMINAL_DEVICE_SECRET"); env != "" {
		secret = []byte(env)
	} else {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral device secret: %w", err)
		}
	}

	return argon2.IDKey(secret, kdfContext, kdfTime, kdfMemory, kdfThreads, kdfKeyLen), nil
}

func getSealKey() ([]byte, error) {
	var err error
	sealKeyOnce.Do(func() {
		sealKey, err = loadSealKey()
	})
	if err != nil {
		return nil, err
	}
	if sealKey == nil {
		return nil, fmt.Errorf("seal key unavailable")
	}
	return sealKey, nil
}

// SealToken encrypts a bearer token using AES-256-GCM.
// The output format is: [12-byte nonce][ciphertext][16-byte auth tag]
func SealToken(token string) ([]byte, error) {
	key, err := getSealKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get seal key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, []byte(token), nil), nil
}

// OpenToken decrypts data produced by SealToken.
func OpenToken(sealed []byte) (string, error) {
	key, err := getSealKey()
	if err != nil {
		return "", fmt.Errorf("failed to get seal key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("sealed token too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}

	return string(plaintext), nil
}

// ResetSealKeyForTesting resets the seal key singleton. Tests only.
func ResetSealKeyForTesting() {
	sealKeyOnce = sync.Once{}
	sealKey = nil
}
