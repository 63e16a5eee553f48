package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogSenderHidesCodeAtInfo(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	require.NoError(t, sender.SendVerificationCode(context.Background(), "kim@x.io", "482913"))

	out := buf.String()
	require.Contains(t, out, "verification code issued")
	require.Contains(t, out, "k***@x.io")
	require.NotContains(t, out, "482913")
	require.NotContains(t, out, "kim@x.io")
}

func TestLogSenderDebugIncludesCode(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	require.NoError(t, sender.SendVerificationCode(context.Background(), "kim@x.io", "482913"))
	require.Contains(t, buf.String(), "482913")
}

func TestMaskEmail(t *testing.T) {
	require.Equal(t, "k***@x.io", MaskEmail("kim@x.io"))
	require.Equal(t, "김***@x.io", MaskEmail("김민수@x.io"))
	require.Equal(t, "***", MaskEmail("no-at-sign"))
	require.Equal(t, "***", MaskEmail("@x.io"))
}
