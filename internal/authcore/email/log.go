package email

import (
	"context"
	"log/slog"
)

// LogSender writes the code to the log instead of delivering mail. Used in
// dev environments without an SMTP relay.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, code string) error {
	s.Logger.Info("otp email suppressed, no smtp relay configured", "to", to, "code", code)
	return nil
}
