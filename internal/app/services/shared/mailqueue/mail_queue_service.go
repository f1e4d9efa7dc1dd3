package mailqueue

import (
	"context"
	"sync"
	"time"

	"authlink-service/internal/app/config"
	"authlink-service/internal/app/models"
	"authlink-service/internal/pkg/constvars"
	"authlink-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

// Service is the bounded, ordered channel carrying outbound e-mail jobs from
// many producers to the single worker. A producer waits at most the
// configured enqueue timeout; after that the job is dropped and logged once.
// There is no retry and no unbounded buffering.
type Service struct {
	log     *zap.Logger
	jobs    chan *models.EMail
	timeout time.Duration

	closeOnce sync.Once
}

func NewService(internalConfig *config.InternalConfig, log *zap.Logger) *Service {
	size := internalConfig.Mailer.QueueSize
	if size <= 0 {
		size = 16
	}
	timeout := time.Duration(internalConfig.Mailer.EnqueueTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		log:     log,
		jobs:    make(chan *models.EMail, size),
		timeout: timeout,
	}
}

// Enqueue hands the job to the worker, waiting up to the configured timeout
// for queue space. Delivery is best-effort: the returned error exists for
// tests and metrics, callers on the request path ignore it.
func (s *Service) Enqueue(ctx context.Context, job *models.EMail) error {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case s.jobs <- job:
		return nil
	case <-timer.C:
		s.log.Error("mail queue stayed full for the whole enqueue wait; dropping e-mail job",
			zap.String(constvars.LoggingAddressKey, job.Address),
			zap.Duration("waited", s.timeout),
		)
		return exceptions.ErrMailQueueFull(nil, job.Address)
	case <-ctx.Done():
		s.log.Error("request canceled while waiting for mail queue space; dropping e-mail job",
			zap.String(constvars.LoggingAddressKey, job.Address),
			zap.Error(ctx.Err()),
		)
		return exceptions.ErrMailQueueFull(ctx.Err(), job.Address)
	}
}

// Jobs exposes the consuming side of the queue to the worker.
func (s *Service) Jobs() <-chan *models.EMail {
	return s.jobs
}

// Close ends the producer side; the worker drains what is left and exits.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.jobs)
	})
}
