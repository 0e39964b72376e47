package pipeline

import (
	"context"
	"time"
)

// begin reserves a queue slot and then the single in-flight slot.
// Returns a release func to be deferred.
func (o *Orchestrator) begin(ctx context.Context) (func(), error) {
	timer := time.NewTimer(o.cfg.MaxWait)
	defer timer.Stop()

	select {
	case o.queueCh <- struct{}{}:
	case <-ctx.Done():
		return func() {}, ctx.Err()
	default:
		rejectedTotal.WithLabelValues("queue_full").Inc()
		return func() {}, tooBusyError{reason: "queue full"}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-o.queueCh
		}
	}()
	select {
	case o.runCh <- struct{}{}:
		acquired = true
		return func() { <-o.runCh; <-o.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		rejectedTotal.WithLabelValues("wait_timeout").Inc()
		return func() {}, tooBusyError{reason: "timed out waiting for in-flight slot"}
	}
}
