package service

import "github.com/shopvn/authcore/pkg/cryptox"

// ArgonHasher is the production Hasher backed by argon2id.
type ArgonHasher struct{}

func (ArgonHasher) Hash(plaintext string) (string, error) {
	return cryptox.HashPassword(plaintext)
}

func (ArgonHasher) Compare(plaintext, hash string) error {
	return cryptox.VerifyPassword(plaintext, hash)
}
