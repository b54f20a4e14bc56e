// Package verification drives the per-credential unlock workflow: a
// one-time code is dispatched to the account owner's email, and the
// credential stays inaccessible until the exact code is echoed back.
package verification

import (
	"context"

	"github.com/securestash/securestash/internal/logging"
)

// Dispatcher delivers a verification code to a recipient. Implementations
// must not retry internally; the gate decides what a failed dispatch means.
type Dispatcher interface {
	DispatchCode(ctx context.Context, recipient string, code string, subjectTitle string) error
}

// LogDispatcher writes the code to the log instead of sending it. It is
// the development fallback when no SMTP server is configured.
type LogDispatcher struct {
	logger logging.Logger
}

func NewLogDispatcher(logger logging.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.With("module", "log_dispatcher")}
}

func (d *LogDispatcher) DispatchCode(ctx context.Context, recipient string, code string, subjectTitle string) error {
	d.logger.Info(ctx, "verification code issued",
		"recipient", recipient, "code", code, "title", subjectTitle)
	return nil
}
