package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ndoors/internal/platform/metrics"
	"ndoors/pkg/requestcontext"
)

// Dispatcher runs notification sends on their own goroutine after the
// triggering state change has committed. The contract: failure here is
// observable only via logs and the failure counter, never via the caller's
// result.
type Dispatcher struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher constructs a dispatcher. A nil logger panics early rather
// than silently losing the only failure signal the contract allows.
func NewDispatcher(logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		panic("notify: dispatcher requires a logger")
	}
	return &Dispatcher{logger: logger, metrics: m, timeout: 30 * time.Second}
}

// Go dispatches send asynchronously. The request's context values
// (request ID) survive but its cancellation does not: the email outlives
// the HTTP request that triggered it.
func (d *Dispatcher) Go(ctx context.Context, kind string, send func(context.Context) error) {
	requestID := requestcontext.RequestID(ctx)
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		if err := send(sendCtx); err != nil {
			d.metrics.IncrementEmailsFailed()
			d.logger.ErrorContext(sendCtx, "notification dispatch failed",
				"kind", kind,
				"error", err,
				"request_id", requestID,
			)
			return
		}
		d.logger.InfoContext(sendCtx, "notification dispatched",
			"kind", kind,
			"request_id", requestID,
		)
	}()
}

// Wait blocks until all in-flight dispatches finish. Tests and graceful
// shutdown use it; request handlers never do.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
