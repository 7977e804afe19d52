package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
)

var (
	mobilePattern  = regexp.MustCompile(`^\d{10}$`)
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
)

// ValidMobile reports whether m is a 10-digit mobile number
func ValidMobile(m string) bool {
	return mobilePattern.MatchString(m)
}

// ValidAadhaar reports whether a is a 12-digit Aadhaar number
func ValidAadhaar(a string) bool {
	return aadhaarPattern.MatchString(a)
}

// MaskAadhaar hides all but the last four digits
func MaskAadhaar(a string) string {
	if len(a) <= 4 {
		return a
	}
	masked := make([]byte, len(a))
	for i := range a {
		if i < len(a)-4 {
			masked[i] = 'X'
		} else {
			masked[i] = a[i]
		}
	}
	return string(masked)
}

// IDVault seals national ID numbers at rest and fingerprints them so
// duplicates can be found without opening every record
type IDVault struct {
	aead    cipher.AEAD
	hmacKey []byte
}

// NewIDVault builds a vault from an AES key of 16, 24 or 32 bytes and an HMAC secret
func NewIDVault(encryptionKey, hmacSecret string) (*IDVault, error) {
	switch len(encryptionKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes, got %d", len(encryptionKey))
	}
	if hmacSecret == "" {
		return nil, fmt.Errorf("hmac secret is empty")
	}
	block, err := aes.NewCipher([]byte(encryptionKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &IDVault{aead: aead, hmacKey: []byte(hmacSecret)}, nil
}

// Seal encrypts value and returns hex(nonce || ciphertext)
func (v *IDVault) Seal(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("input data is empty")
	}
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(v.aead.Seal(nonce, nonce, []byte(value), nil)), nil
}

// Open reverses Seal. Tampered or foreign ciphertexts fail.
func (v *IDVault) Open(sealed string) (string, error) {
	data, err := hex.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode hex: %w", err)
	}
	n := v.aead.NonceSize()
	if len(data) <= n {
		return "", fmt.Errorf("sealed value too short: %d bytes", len(data))
	}
	plain, err := v.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to open sealed value: %w", err)
	}
	return string(plain), nil
}

// Fingerprint is a keyed, deterministic digest of value
func (v *IDVault) Fingerprint(value string) string {
	h := hmac.New(sha256.New, v.hmacKey)
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
