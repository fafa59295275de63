// Package security contains everything related to the security of user data
package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Hasher turns raw passwords into stored hashes and checks them back
type Hasher interface {
	GenerateFromPassword(p string) (string, error)
	VerifyPasswd(p, e string) (bool, error)

	// Deterministic hashers produce the same output for the same input,
	// so a login can be resolved with a single (email, hash) lookup
	Deterministic() bool
}

// SHA256Hash is the legacy scheme: unsalted hex encoded SHA-256. Databases
// created by the first version of the marketplace store passwords this way
type SHA256Hash struct{}

func NewSHA256() *SHA256Hash {
	return &SHA256Hash{}
}

func (SHA256Hash) GenerateFromPassword(p string) (string, error) {
	sum := sha256.Sum256([]byte(p))
	return hex.EncodeToString(sum[:]), nil
}

func (s SHA256Hash) VerifyPasswd(p, e string) (bool, error) {
	calc, _ := s.GenerateFromPassword(p)
	return subtle.ConstantTimeCompare([]byte(calc), []byte(e)) == 1, nil
}

func (SHA256Hash) Deterministic() bool {
	return true
}

// NewHasher returns the hasher registered under name
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "sha256":
		return NewSHA256(), nil
	case "argon2id":
		return New(), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}
