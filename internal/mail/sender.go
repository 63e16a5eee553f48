// Package mail delivers verification codes. Only a logging sender ships;
// an SMTP or provider-backed Sender plugs in behind the same interface.
package mail

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"
)

type Sender interface {
	SendVerificationCode(ctx context.Context, email string, code string) error
}

type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log}
}

// SendVerificationCode never writes the address or code at Info; the code is
// only visible with debug logging enabled.
func (s *LogSender) SendVerificationCode(ctx context.Context, email string, code string) error {
	s.log.InfoContext(ctx, "verification code issued", "email", MaskEmail(email))
	s.log.DebugContext(ctx, "verification code", "email", MaskEmail(email), "code", code)
	return nil
}

// MaskEmail keeps the first rune of the local part and the domain: k***@x.io.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	first, _ := utf8.DecodeRuneInString(local)
	return string(first) + "***@" + domain
}
