package amqp

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

const maxBackoff = 30 * time.Second

// exponentialBackoff returns the wait before reconnect attempt n,
// doubling from one second and capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := time.Second << uint(attempt)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

// ConsumeForever consumes export jobs, redialing the broker with
// exponential backoff when the connection drops. It returns when the
// context is cancelled or on the first non-connection error.
func ConsumeForever(ctx context.Context, url, exchange, queue string, handler func(*ExportJobMessage) error) error {
	attempt := 0
	for {
		client, err := NewClient(url, exchange, queue)
		if err != nil {
			if !isConnectionError(err) {
				return err
			}
		} else {
			attempt = 0
			err = client.ConsumeExportJobs(ctx, handler)
			client.Close()
			if err != nil && !isConnectionError(err) && !errors.Is(err, context.Canceled) {
				return err
			}
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := exponentialBackoff(attempt)
		attempt++
		slog.WarnContext(ctx, "broker connection lost, reconnecting",
			"error", err, "wait", wait, "attempt", attempt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// isConnectionError reports whether the error looks like a broken broker
// connection worth a reconnect, as opposed to a permanent failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection refused", "connection closed", "channel closed", "eof", "broken pipe", "channel/connection is not open"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
