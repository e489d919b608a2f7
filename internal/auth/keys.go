// Package auth issues and checks the API keys guarding the HTTP endpoints.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matthewsawatzky/whitelabel/internal/db"
)

var (
	ErrMissingKey = errors.New("missing api key")
	ErrInvalidKey = errors.New("invalid api key")
)

const secretBytes = 32

// Principal identifies the caller of a request.
type Principal struct {
	KeyID string
	Name  string
	Local bool
}

// Actor is the name recorded in the audit log.
func (p Principal) Actor() string {
	switch {
	case p.Local:
		return "localhost"
	case p.KeyID != "":
		return "key:" + p.KeyID
	case p.Name != "":
		return p.Name
	}
	return "anonymous"
}

// IssuedKey is a freshly generated key. Token is shown once and never stored.
type IssuedKey struct {
	ID    string
	Token string
	Hash  string
}

// NewKey generates a key of the form "<id>.<secret>". The secret is
// URL-safe base64 and never contains the separator.
func NewKey() (IssuedKey, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return IssuedKey{}, fmt.Errorf("generate key secret: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(buf)
	hash, err := HashSecret(secret)
	if err != nil {
		return IssuedKey{}, err
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return IssuedKey{ID: id, Token: id + "." + secret, Hash: hash}, nil
}

// ParseToken splits an issued token into id and secret.
func ParseToken(token string) (id, secret string, ok bool) {
	id, secret, ok = strings.Cut(strings.TrimSpace(token), ".")
	if !ok || id == "" || secret == "" {
		return "", "", false
	}
	return id, secret, true
}

// KeyStore is the persistence the Authenticator needs.
type KeyStore interface {
	GetAPIKey(id string) (db.APIKey, error)
	TouchAPIKey(id string) error
}

// Authenticator accepts the configured static key and any issued key that
// has not been revoked.
type Authenticator struct {
	static string
	keys   KeyStore
}

func NewAuthenticator(static string, keys KeyStore) *Authenticator {
	return &Authenticator{static: strings.TrimSpace(static), keys: keys}
}

// Enabled reports whether any key could ever be accepted.
func (a *Authenticator) Enabled() bool {
	return a.static != "" || a.keys != nil
}

func (a *Authenticator) Authenticate(presented string) (Principal, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return Principal{}, ErrMissingKey
	}
	if a.static != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(a.static)) == 1 {
		return Principal{Name: "static"}, nil
	}
	if a.keys == nil {
		return Principal{}, ErrInvalidKey
	}
	id, secret, ok := ParseToken(presented)
	if !ok {
		return Principal{}, ErrInvalidKey
	}
	key, err := a.keys.GetAPIKey(id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return Principal{}, ErrInvalidKey
		}
		return Principal{}, fmt.Errorf("load api key: %w", err)
	}
	if key.Revoked {
		return Principal{}, ErrInvalidKey
	}
	match, err := VerifySecret(key.SecretHash, secret)
	if err != nil {
		return Principal{}, fmt.Errorf("verify api key: %w", err)
	}
	if !match {
		return Principal{}, ErrInvalidKey
	}
	_ = a.keys.TouchAPIKey(id)
	return Principal{KeyID: key.ID, Name: key.Name}, nil
}
