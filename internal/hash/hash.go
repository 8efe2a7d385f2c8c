package hash

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashToken stores a refresh token at rest. bcrypt caps input at 72 bytes
// and a signed JWT is always longer, so the token is pre-digested with
// SHA-256 before the slow salted hash.
func HashToken(token string) (string, error) {
	return HashPassword(Sha256Hex(token))
}

func CheckToken(hash, token string) bool {
	return CheckPassword(hash, Sha256Hex(token))
}
