package utils

import (
	"crypto/rand"
	"math/big"
)

const tokenCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSecureToken returns a random alphanumeric string of the given
// length, suitable for unguessable identifiers.
func GenerateSecureToken(length int) (string, error) {
	max := big.NewInt(int64(len(tokenCharset)))
	token := make([]byte, length)
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		token[i] = tokenCharset[n.Int64()]
	}
	return string(token), nil
}
