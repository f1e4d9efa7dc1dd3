package mailqueue

import (
	"context"

	"authlink-service/internal/app/contracts"
	"authlink-service/internal/pkg/constvars"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Worker is the single long-lived consumer of the mail queue. Jobs are
// transmitted strictly in arrival order; a per-message failure is logged and
// the loop continues. With a nil transport the worker runs in degraded mode:
// it drains and logs jobs without any network I/O.
type Worker struct {
	log       *zap.Logger
	queue     *Service
	transport contracts.MailTransport
	limiter   *rate.Limiter
	done      chan struct{}
}

// NewWorker wires the worker to its queue. maxSendsPerSecond <= 0 disables
// the relay throttle.
func NewWorker(log *zap.Logger, queue *Service, transport contracts.MailTransport, maxSendsPerSecond int) *Worker {
	var limiter *rate.Limiter
	if maxSendsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(maxSendsPerSecond), 1)
	}
	return &Worker{
		log:       log,
		queue:     queue,
		transport: transport,
		limiter:   limiter,
		done:      make(chan struct{}),
	}
}

// Start launches the consumer goroutine and returns a channel that closes
// once the queue is closed and fully drained.
func (w *Worker) Start() <-chan struct{} {
	go w.run()
	return w.done
}

func (w *Worker) run() {
	defer close(w.done)
	w.log.Debug("e-mail worker started")

	if w.transport == nil {
		for job := range w.queue.Jobs() {
			w.log.Info("new e-mail job drained in test mode",
				zap.String(constvars.LoggingAddressKey, job.Address),
				zap.String("subject", job.Subject),
			)
		}
		w.log.Warn("mail queue closed - e-mail worker exiting")
		return
	}

	for job := range w.queue.Jobs() {
		if w.limiter != nil {
			_ = w.limiter.Wait(context.Background())
		}
		if err := w.transport.Send(job); err != nil {
			w.log.Error("could not send e-mail",
				zap.String(constvars.LoggingAddressKey, job.Address),
				zap.Error(err),
			)
			continue
		}
		w.log.Info("e-mail sent successfully",
			zap.String(constvars.LoggingAddressKey, job.Address),
		)
	}
	w.log.Warn("mail queue closed - e-mail worker exiting")
}
