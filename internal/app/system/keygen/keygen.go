// internal/app/system/keygen/keygen.go
package keygen

import (
	"crypto/rand"
	"math/big"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// CredentialLength is the length of a generated API key or secret.
const CredentialLength = 7

// NewCredentials generates a fresh API key/secret pair for a project.
func NewCredentials() (key, secret string, err error) {
	key, err = randomAlphanumeric(CredentialLength)
	if err != nil {
		return "", "", err
	}
	secret, err = randomAlphanumeric(CredentialLength)
	if err != nil {
		return "", "", err
	}
	return key, secret, nil
}

func randomAlphanumeric(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphanumeric)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return string(out), nil
}
