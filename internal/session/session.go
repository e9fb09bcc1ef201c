package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Record is the server-side state held for one authenticated session.
type Record struct {
	UserID   int64
	OfficeID int64
}

// Store maps opaque client-held tokens to session records. The cookie value
// is "token.signature" where the signature is an HMAC-SHA256 over the token,
// so a tampered cookie is rejected before the cache lookup. A TTL of zero
// keeps sessions alive until logout.
type Store struct {
	cache  *cache.Cache
	secret []byte
	ttl    time.Duration
}

// NewStore creates a session store signing tokens with secret.
func NewStore(secret string, ttl time.Duration) *Store {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = 2 * ttl
	}
	return &Store{
		cache:  cache.New(expiration, cleanup),
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Create stores a new session and returns the signed cookie value.
func (s *Store) Create(rec Record) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	s.cache.SetDefault(token, rec)
	return token + "." + s.sign(token), nil
}

// Get resolves a cookie value to its session record. It returns false for
// missing, expired, or tampered tokens.
func (s *Store) Get(cookieValue string) (Record, bool) {
	token, ok := s.verify(cookieValue)
	if !ok {
		return Record{}, false
	}
	v, found := s.cache.Get(token)
	if !found {
		return Record{}, false
	}
	rec, ok := v.(Record)
	return rec, ok
}

// Delete removes the session behind a cookie value. Unknown or invalid
// values are a no-op.
func (s *Store) Delete(cookieValue string) {
	if token, ok := s.verify(cookieValue); ok {
		s.cache.Delete(token)
	}
}

func (s *Store) sign(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Store) verify(cookieValue string) (string, bool) {
	token, sig, found := strings.Cut(cookieValue, ".")
	if !found || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(token))) {
		return "", false
	}
	return token, true
}
