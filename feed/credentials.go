package feed

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials decides how a password is kept and checked.
type Credentials interface {
	Seal(password string) (string, error)
	Match(stored, password string) bool
}

// PlainCredentials keeps passwords as given and compares them exactly.
type PlainCredentials struct{}

func (PlainCredentials) Seal(password string) (string, error) { return password, nil }

func (PlainCredentials) Match(stored, password string) bool { return stored == password }

// BcryptCredentials keeps bcrypt hashes. A zero Cost means bcrypt.DefaultCost.
type BcryptCredentials struct {
	Cost int
}

func (b BcryptCredentials) Seal(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (BcryptCredentials) Match(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// CredentialsFor maps a config name ("plain" or "bcrypt") to a policy.
func CredentialsFor(name string) (Credentials, error) {
	switch name {
	case "", "plain":
		return PlainCredentials{}, nil
	case "bcrypt":
		return BcryptCredentials{}, nil
	default:
		return nil, fmt.Errorf("unknown password hashing %q", name)
	}
}
