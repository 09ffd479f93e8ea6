// Package dispatch delivers push hints to registered devices. A push hint
// carries no content; it only tells the device to re-poll the web service.
// Delivery is fire-and-forget with at-least-once semantics: the protocol
// stays correct if a hint is lost, the device just polls later.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/walletpass/passd/internal/passkit"
)

// LogDispatcher records dispatches without delivering them. Used in dev
// and test environments where no push credentials exist.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a dispatcher that only logs.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, reg passkit.Registration) error {
	d.logger.Debug("push hint suppressed (dispatch disabled)",
		slog.String("serial", reg.Serial),
		slog.String("device", reg.DeviceLibraryID))
	return nil
}
