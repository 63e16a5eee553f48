package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"go-marketplace/internal/cache"
	"go-marketplace/internal/mail"
	"go-marketplace/internal/metrics"
	"go-marketplace/internal/model"
)

const (
	codeDigits = 6
	// maxCodeAttempts wrong guesses burn the current code.
	maxCodeAttempts = 5
)

type codeStore interface {
	cache.Writer
	GetData(ctx context.Context, key string) (string, bool, error)
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type EmailService struct {
	codes  codeStore
	sender mail.Sender
	ttl    time.Duration
}

func NewEmailService(codes codeStore, sender mail.Sender, ttl time.Duration) *EmailService {
	return &EmailService{codes: codes, sender: sender, ttl: ttl}
}

func (s *EmailService) CodeTTL() time.Duration { return s.ttl }

// RequestCode stores a fresh code for email, replacing any earlier one, and sends it.
func (s *EmailService) RequestCode(ctx context.Context, email string) error {
	code, err := newVerificationCode()
	if err != nil {
		return err
	}

	key := cache.EmailCodeKey(email)
	if err := s.codes.DeleteData(ctx, cache.EmailAttemptsKey(email)); err != nil {
		return err
	}
	if err := s.codes.SetDataExpire(ctx, key, code, s.ttl); err != nil {
		return err
	}

	if err := s.sender.SendVerificationCode(ctx, email, code); err != nil {
		slog.WarnContext(ctx, "verification code delivery failed", "error", err)
		if delErr := s.codes.DeleteData(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "verification code cleanup failed", "error", delErr)
		}
		return fmt.Errorf("%w: %v", model.ErrFailSendEmail, err)
	}

	metrics.EmailCodes.WithLabelValues("sent").Inc()
	return nil
}

// VerifyCode consumes the stored code on a match.
func (s *EmailService) VerifyCode(ctx context.Context, email string, code string) error {
	key := cache.EmailCodeKey(email)
	stored, ok, err := s.codes.GetData(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		metrics.EmailCodes.WithLabelValues("rejected").Inc()
		return model.ErrInvalidCode
	}

	attemptsKey := cache.EmailAttemptsKey(email)
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		metrics.EmailCodes.WithLabelValues("rejected").Inc()
		attempts, err := s.codes.Increment(ctx, attemptsKey, s.ttl)
		if err != nil {
			return err
		}
		if attempts >= maxCodeAttempts {
			slog.WarnContext(ctx, "verification code locked after failed attempts", "attempts", attempts)
			if err := s.discard(ctx, key, attemptsKey); err != nil {
				return err
			}
		}
		return model.ErrInvalidCode
	}

	if err := s.discard(ctx, key, attemptsKey); err != nil {
		return err
	}

	metrics.EmailCodes.WithLabelValues("verified").Inc()
	return nil
}

func (s *EmailService) discard(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.codes.DeleteData(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func newVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
