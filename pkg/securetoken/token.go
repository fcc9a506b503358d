// Package securetoken mints unguessable confirmation tokens.
package securetoken

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenBytes количество байт энтропии в токене (128 бит)
const TokenBytes = 16

// New возвращает криптографически случайный токен в hex-кодировке
// (32 символа, 128 бит энтропии)
func New() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("securetoken: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Generator адаптер для внедрения через интерфейс
type Generator struct{}

func (Generator) New() (string, error) {
	return New()
}
