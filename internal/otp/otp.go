package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/cache"
)

const (
	codeLength = 6
	ttl        = 10 * time.Minute
)

var (
	ErrCodeInvalid = errors.New("otp: code invalid or expired")
)

// Sender delivers a one-time code to a recipient.
type Sender interface {
	Send(ctx context.Context, email, code string) error
}

// Service issues and verifies one-time passwords for password resets.
// Codes live in the cache with a 10-minute TTL and are consumed on first
// successful verification.
type Service struct {
	cache  cache.CacheService
	sender Sender
	log    *zap.Logger
}

func NewService(c cache.CacheService, sender Sender, log *zap.Logger) *Service {
	return &Service{cache: c, sender: sender, log: log}
}

func key(email string) string {
	return "otp:" + email
}

// Issue generates a fresh code for the email, stores it, and sends it.
// Reissuing replaces any earlier unexpired code.
func (s *Service) Issue(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	if err := s.cache.Set(ctx, key(email), code, ttl); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.sender.Send(ctx, email, code); err != nil {
		// The code is already stored; delivery failure should not leave
		// a live code the user never saw.
		_ = s.cache.Delete(ctx, key(email))
		return fmt.Errorf("failed to send otp: %w", err)
	}

	s.log.Info("OTP issued", zap.String("email", email))
	return nil
}

// Verify checks a code without consuming it. Used for the standalone
// verification endpoint.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	var stored string
	if err := s.cache.Get(ctx, key(email), &stored); err != nil {
		return ErrCodeInvalid
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrCodeInvalid
	}
	return nil
}

// Consume verifies a code and invalidates it on success.
func (s *Service) Consume(ctx context.Context, email, code string) error {
	if err := s.Verify(ctx, email, code); err != nil {
		return err
	}
	return s.cache.Delete(ctx, key(email))
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeLength, n.Int64()), nil
}
