package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrUnauthorized = fmt.Errorf("unauthorized")

// dummyHash is compared against when the username is unknown, so that the
// unknown-user and wrong-password paths cost the same.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Credential seeds one user into the store.
type Credential struct {
	Username string
	Password string
	OwnerID  string
}

type credential struct {
	passwordHash []byte
	ownerID      string
}

// Store maps usernames to password hashes and owner identities. It is
// read-only after construction.
type Store struct {
	users map[string]credential
}

func NewStore(creds []Credential) (*Store, error) {
	users := make(map[string]credential, len(creds))

	for _, c := range creds {
		if c.Username == "" || c.OwnerID == "" {
			return nil, fmt.Errorf("credential needs a username and an owner id")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password for %s: %w", c.Username, err)
		}

		users[c.Username] = credential{
			passwordHash: hash,
			ownerID:      c.OwnerID,
		}
	}

	return &Store{users: users}, nil
}

// Resolve maps verified credentials to an owner identity. An unknown username
// and a wrong password both fail with the same ErrUnauthorized; the caller
// learns nothing about which factor was wrong.
func (s *Store) Resolve(username, password string) (string, error) {
	cred, ok := s.users[username]

	hash := dummyHash
	if ok {
		hash = cred.passwordHash
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !ok {
		return "", ErrUnauthorized
	}

	return cred.ownerID, nil
}
