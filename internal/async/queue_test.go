package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/om0401/CreditCardDataExtraction/internal/statement"
)

type countingProcessor struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (p *countingProcessor) ProcessFile(_ context.Context, path, _ string, _ []string) (*statement.Statement, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
	if p.err != nil {
		return nil, p.err
	}
	return &statement.Statement{ID: uuid.New()}, nil
}

func (p *countingProcessor) processed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.paths...)
}

func TestQueueProcessesAllJobs(t *testing.T) {
	proc := &countingProcessor{}
	q := NewQueue(proc, nil, WithWorkers(2), WithQueueSize(8))

	ctx := context.Background()
	for _, p := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		require.NoError(t, q.Enqueue(ctx, Job{Path: p, SubmittedAt: time.Now()}))
	}
	q.Shutdown(ctx)

	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf", "c.pdf"}, proc.processed())
}

func TestQueueSurvivesProcessingErrors(t *testing.T) {
	proc := &countingProcessor{err: errors.New("ocr failed")}
	q := NewQueue(proc, nil, WithWorkers(1))

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Job{Path: "a.pdf"}))
	require.NoError(t, q.Enqueue(ctx, Job{Path: "b.pdf"}))
	q.Shutdown(ctx)

	// a failed job is logged and dropped, the worker keeps going
	assert.Len(t, proc.processed(), 2)
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	proc := &countingProcessor{}
	q := NewQueue(proc, nil, WithWorkers(1))
	q.Shutdown(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "late.pdf"}))
	assert.Empty(t, proc.processed())
}

func TestQueueShutdownIdempotent(t *testing.T) {
	q := NewQueue(&countingProcessor{}, nil, WithWorkers(1))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())
}
