package monitoring

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

// InitErrorTracking configures sentry. An empty dsn leaves the client disabled,
// captures then become no-ops.
func InitErrorTracking(dsn, environment string) {
	if dsn == "" {
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Debug:            environment == "dev",
		AttachStacktrace: true,
		SendDefaultPII:   false,
	})
	if err != nil {
		slog.Error("failed to init error tracking", "err", err)
	}
}

// FlushErrorTracking waits for buffered events before shutdown.
func FlushErrorTracking() {
	sentry.Flush(2 * time.Second)
}

func Alert(message string, err error) {
	evID := sentry.CurrentHub().CaptureException(errors.Wrap(err, message))
	slog.Error("critical error encountered", "msg", message, "error", err, "id (<nil> if not sent to error tracking)", evID)
}
