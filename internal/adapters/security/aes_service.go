package security

import (
	"MediVerify/internal/core/ports"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/hkdf"
)

const fingerprintInfo = "mediverify/pii-fingerprint/v1"

// piiVault implements SecurityPort: AES-GCM for Aadhaar numbers and other
// PII at rest, plus an HMAC fingerprint for lookups on encrypted columns.
type piiVault struct {
	gcm    cipher.AEAD
	macKey []byte
	log    zerolog.Logger
}

var _ ports.SecurityPort = (*piiVault)(nil)

// NewAESService builds the vault from a 16 or 32 byte key. The
// fingerprint key is derived from it with HKDF so one secret serves both.
func NewAESService(encryptionKey []byte, baseLogger *zerolog.Logger) (ports.SecurityPort, error) {
	if len(encryptionKey) != 16 && len(encryptionKey) != 32 {
		return nil, errors.New("encryptionKey must be 16 or 32 bytes")
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("could not create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}

	macKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, encryptionKey, nil, []byte(fingerprintInfo)), macKey); err != nil {
		return nil, fmt.Errorf("could not derive fingerprint key: %w", err)
	}

	log := baseLogger.With().Str("component", "pii_vault").Logger()
	log.Info().Msg("PII vault initialized")

	return &piiVault{gcm: gcm, macKey: macKey, log: log}, nil
}

// Encrypt seals plaintext with a random nonce prepended.
func (s *piiVault) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		s.log.Error().Err(err).Msg("Failed to generate nonce")
		return nil, fmt.Errorf("could not generate nonce: %w", err)
	}
	return s.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a value produced by Encrypt.
func (s *piiVault) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := s.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext is too short")
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := s.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to decrypt PII (tampered or wrong key?)")
		return nil, fmt.Errorf("could not decrypt: %w", err)
	}
	return plaintext, nil
}

// Fingerprint is HMAC-SHA256 over plaintext, hex encoded.
func (s *piiVault) Fingerprint(plaintext []byte) string {
	mac := hmac.New(sha256.New, s.macKey)
	mac.Write(plaintext)
	return hex.EncodeToString(mac.Sum(nil))
}
