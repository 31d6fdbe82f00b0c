package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters, OWASP minimum profile.
const (
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	saltLen      = 16
)

// hashPassword derives a hash from password and a fresh random salt. Both come back hex encoded.
func hashPassword(password string) (hash, salt string, err error) {
	raw := make([]byte, saltLen)
	if _, err = rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("rand.Read -> %w", err)
	}

	salt = hex.EncodeToString(raw)
	hash, err = derivePasswordHash(password, salt)
	if err != nil {
		return "", "", err
	}

	return hash, salt, nil
}

func derivePasswordHash(password, salt string) (string, error) {
	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("hex.DecodeString -> %w", err)
	}

	key := argon2.IDKey([]byte(password), rawSalt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return hex.EncodeToString(key), nil
}

func verifyPassword(password, hash, salt string) bool {
	derived, err := derivePasswordHash(password, salt)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}
