// Package smscode keeps phone verification codes in memory. A phone has at
// most one live code: a new request overwrites the previous one, and a
// successful verification consumes the code.
package smscode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/dmitrijs2005/carblock/internal/common"
)

type entry struct {
	code      string
	expiresAt time.Time
}

type Store struct {
	mu     sync.Mutex
	codes  map[string]entry
	length int
	ttl    time.Duration
	now    func() time.Time
}

// NewStore creates a code store issuing numeric codes of the given length
// with the given time to live.
func NewStore(length int, ttl time.Duration) *Store {
	return &Store{
		codes:  make(map[string]entry),
		length: length,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate issues a fresh code for the phone, invalidating any previous one.
func (s *Store) Generate(phone string) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < s.length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%0*d", s.length, n)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = entry{code: code, expiresAt: s.now().Add(s.ttl)}
	return code, nil
}

// Verify checks the code for the phone and consumes it on success. A wrong
// code leaves the stored one intact; an expired one is removed.
func (s *Store) Verify(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.codes[phone]
	if !ok {
		return common.ErrInvalidCode
	}
	if s.now().After(e.expiresAt) {
		delete(s.codes, phone)
		return common.ErrCodeExpired
	}
	if e.code != code {
		return common.ErrInvalidCode
	}
	delete(s.codes, phone)
	return nil
}

// TTL returns the configured code lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
