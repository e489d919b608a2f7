package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 2
	argonKeyLen  uint32 = 32
	saltLen             = 16
	minSecretLen        = 16
)

// HashSecret returns an encoded argon2id hash of secret.
func HashSecret(secret string) (string, error) {
	if len(secret) < minSecretLen {
		return "", fmt.Errorf("secret must be at least %d characters", minSecretLen)
	}
	saltRaw := make([]byte, saltLen)
	if _, err := rand.Read(saltRaw); err != nil {
		return "", fmt.Errorf("random bytes: %w", err)
	}
	hash := argon2.IDKey([]byte(secret), saltRaw, argonTime, argonMemory, argonThreads, argonKeyLen)
	salt := base64.RawStdEncoding.EncodeToString(saltRaw)
	hashB64 := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s", argonMemory, argonTime, argonThreads, salt, hashB64), nil
}

func VerifySecret(encodedHash, secret string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("unsupported hash algorithm")
	}

	var memory, timeCost uint32
	var threads uint8
	for _, pair := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return false, err
		}
		switch k {
		case "m":
			memory = uint32(n)
		case "t":
			timeCost = uint32(n)
		case "p":
			if n > 255 {
				return false, fmt.Errorf("invalid argon2 parallelism %d", n)
			}
			threads = uint8(n)
		}
	}
	if memory == 0 || timeCost == 0 || threads == 0 {
		return false, fmt.Errorf("invalid argon2 parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, err
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(secret), salt, timeCost, memory, threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(candidate, hash) == 1, nil
}
