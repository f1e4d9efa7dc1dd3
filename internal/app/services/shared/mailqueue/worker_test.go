package mailqueue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"authlink-service/internal/app/config"
	"authlink-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingTransport struct {
	mu     sync.Mutex
	sent   []string
	failOn string
}

func (t *recordingTransport) Send(email *models.EMail) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if email.Address == t.failOn {
		return fmt.Errorf("relay rejected recipient")
	}
	t.sent = append(t.sent, email.Address)
	return nil
}

func (t *recordingTransport) addresses() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.sent...)
}

func newQueueForWorkerTest(size int) *Service {
	return NewService(&config.InternalConfig{
		Mailer: config.Mailer{QueueSize: size, EnqueueTimeoutInSeconds: 1},
	}, zap.NewNop())
}

func TestWorkerSendsInOrderAndExitsOnClose(t *testing.T) {
	queue := newQueueForWorkerTest(4)
	transport := &recordingTransport{}
	done := NewWorker(zap.NewNop(), queue, transport, 0).Start()

	for _, addr := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		assert.NoError(t, queue.Enqueue(context.Background(), &models.EMail{Address: addr}))
	}
	queue.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit after queue close")
	}

	assert.Equal(t, []string{"a@x.io", "b@x.io", "c@x.io"}, transport.addresses())
}

func TestWorkerContinuesAfterSendFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	queue := newQueueForWorkerTest(4)
	transport := &recordingTransport{failOn: "b@x.io"}
	done := NewWorker(zap.New(core), queue, transport, 0).Start()

	for _, addr := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		assert.NoError(t, queue.Enqueue(context.Background(), &models.EMail{Address: addr}))
	}
	queue.Close()
	<-done

	assert.Equal(t, []string{"a@x.io", "c@x.io"}, transport.addresses())
	assert.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "could not send")
}

func TestWorkerTestModeDrainsWithoutTransport(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	queue := newQueueForWorkerTest(4)
	done := NewWorker(zap.New(core), queue, nil, 0).Start()

	assert.NoError(t, queue.Enqueue(context.Background(), &models.EMail{Address: "a@x.io", Subject: "Hello"}))
	assert.NoError(t, queue.Enqueue(context.Background(), &models.EMail{Address: "b@x.io", Subject: "World"}))
	queue.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit after queue close")
	}

	drained := logs.FilterMessageSnippet("drained in test mode")
	assert.Equal(t, 2, drained.Len())
}
