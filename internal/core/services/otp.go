package services

import (
	"MediVerify/internal/core/domain"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

var otpSpace = big.NewInt(1_000_000)

// GenerateOTP returns a uniformly random, zero-padded 6-digit code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", domain.OTPDigits, n.Int64()), nil
}

// GenerateLinkToken returns 128 random bits, hex encoded. The alphabet
// fits Telegram's /start parameter.
func GenerateLinkToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate link token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
