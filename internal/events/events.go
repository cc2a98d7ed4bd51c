// Package events carries best-effort notifications out of the wallet
// registry. Registration's dependent setup phase reports its outcome here
// instead of failing the registration call.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SetupResult describes the outcome of the best-effort setup phase that
// follows a successful wallet registration.
type SetupResult struct {
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Succeeded  bool      `json:"succeeded"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Emitter publishes setup results. Implementations must never block
// registration: emission failures are an operator concern, not a caller
// concern.
type Emitter interface {
	EmitSetupResult(ctx context.Context, result SetupResult)
}

// LogEmitter writes setup results to the structured log. Default emitter
// when no queue is configured.
type LogEmitter struct {
	logger *zap.Logger
}

// NewLogEmitter creates a log-backed emitter.
func NewLogEmitter(logger *zap.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

// EmitSetupResult logs the result; failures warn, successes are debug noise.
func (e *LogEmitter) EmitSetupResult(_ context.Context, result SetupResult) {
	fields := []zap.Field{
		zap.String("user_id", result.UserID),
		zap.String("kind", result.Kind),
		zap.Bool("succeeded", result.Succeeded),
		zap.String("detail", result.Detail),
	}
	if result.Succeeded {
		e.logger.Debug("Wallet setup completed", fields...)
		return
	}
	e.logger.Warn("Wallet setup failed after registration", fields...)
}
