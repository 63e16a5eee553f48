package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-marketplace/internal/cache"
	"go-marketplace/internal/model"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendVerificationCode(ctx context.Context, email string, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func TestEmailVerification(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions, srv := newTestSessions(t)
	sender := &mockSender{}
	svc := NewEmailService(sessions, sender, 5*time.Minute)

	var sent string
	sender.On("SendVerificationCode", mock.Anything, "User@x.io", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { sent = args.String(2) }).
		Return(nil).Once()

	require.NoError(t, svc.RequestCode(ctx, "User@x.io"))
	sender.AssertExpectations(t)
	require.Regexp(t, regexp.MustCompile(`^\d{6}$`), sent)
	require.Equal(t, 5*time.Minute, srv.TTL(cache.EmailCodeKey("user@x.io")))

	err := svc.VerifyCode(ctx, "user@x.io", "not-it")
	require.ErrorIs(t, err, model.ErrInvalidCode)

	require.NoError(t, svc.VerifyCode(ctx, "user@x.io", sent))

	err = svc.VerifyCode(ctx, "user@x.io", sent)
	require.ErrorIs(t, err, model.ErrInvalidCode)
}

func TestEmailVerificationExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions, srv := newTestSessions(t)
	sender := &mockSender{}
	svc := NewEmailService(sessions, sender, time.Minute)

	var sent string
	sender.On("SendVerificationCode", mock.Anything, "a@x.io", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.String(2) }).
		Return(nil)

	require.NoError(t, svc.RequestCode(ctx, "a@x.io"))
	srv.FastForward(2 * time.Minute)

	require.ErrorIs(t, svc.VerifyCode(ctx, "a@x.io", sent), model.ErrInvalidCode)
}

func TestEmailDeliveryFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions, _ := newTestSessions(t)
	sender := &mockSender{}
	svc := NewEmailService(sessions, sender, time.Minute)

	sender.On("SendVerificationCode", mock.Anything, "a@x.io", mock.Anything).
		Return(errors.New("smtp down"))

	err := svc.RequestCode(ctx, "a@x.io")
	require.ErrorIs(t, err, model.ErrFailSendEmail)

	_, ok, err := sessions.GetData(ctx, cache.EmailCodeKey("a@x.io"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEmailVerificationLocksAfterFailedAttempts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions, srv := newTestSessions(t)
	sender := &mockSender{}
	svc := NewEmailService(sessions, sender, 5*time.Minute)

	var sent string
	sender.On("SendVerificationCode", mock.Anything, "a@x.io", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.String(2) }).
		Return(nil)

	require.NoError(t, svc.RequestCode(ctx, "a@x.io"))

	wrong := "000000"
	if sent == wrong {
		wrong = "111111"
	}
	for i := 0; i < maxCodeAttempts-1; i++ {
		require.ErrorIs(t, svc.VerifyCode(ctx, "a@x.io", wrong), model.ErrInvalidCode)
	}
	require.True(t, srv.Exists(cache.EmailCodeKey("a@x.io")))

	require.ErrorIs(t, svc.VerifyCode(ctx, "a@x.io", wrong), model.ErrInvalidCode)
	require.False(t, srv.Exists(cache.EmailCodeKey("a@x.io")))
	require.False(t, srv.Exists(cache.EmailAttemptsKey("a@x.io")))

	require.ErrorIs(t, svc.VerifyCode(ctx, "a@x.io", sent), model.ErrInvalidCode)

	// A fresh code starts a fresh attempt window.
	require.NoError(t, svc.RequestCode(ctx, "a@x.io"))
	require.ErrorIs(t, svc.VerifyCode(ctx, "a@x.io", wrong+"x"), model.ErrInvalidCode)
	require.NoError(t, svc.VerifyCode(ctx, "a@x.io", sent))
}
