package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"haven/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedFetcher struct {
	mu       sync.Mutex
	calls    int
	statuses []models.PaymentStatus
}

func (f *scriptedFetcher) PaymentDetail(ctx context.Context, reference string) (models.PaymentDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := f.statuses[len(f.statuses)-1]
	if f.calls < len(f.statuses) {
		status = f.statuses[f.calls]
	}
	f.calls++
	return models.PaymentDetail{Reference: reference, Status: status}, nil
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestTerminalPredicates(t *testing.T) {
	assert.True(t, IsPaymentCompleted(models.StatusPaid))
	assert.True(t, IsPaymentCompleted(models.StatusSettled))
	assert.False(t, IsPaymentCompleted(models.StatusPending))

	assert.True(t, IsPaymentFailed(models.StatusExpired))
	assert.True(t, IsPaymentFailed(models.StatusCanceled))
	assert.True(t, IsPaymentFailed(models.StatusFailed))
	assert.False(t, IsPaymentFailed(models.StatusPaid))

	// Anything matching neither predicate is still in flight.
	assert.False(t, IsTerminal(models.PaymentStatus("unpaid")))
}

func TestPollStopsAtTerminalStatus(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []models.PaymentStatus{
		models.StatusPending, models.StatusPending, models.StatusPaid,
	}}
	r := NewReconciler(fetcher, 10*time.Millisecond)

	var observed []StatusUpdate
	for update := range r.Poll(context.Background(), "T100") {
		observed = append(observed, update)
	}

	require.Len(t, observed, 3)
	assert.Equal(t, models.StatusPending, observed[0].Status)
	assert.Equal(t, models.StatusPending, observed[1].Status)
	assert.Equal(t, models.StatusPaid, observed[2].Status)
	assert.True(t, observed[2].Terminal)

	// No further polls are scheduled after the terminal observation.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 3, fetcher.callCount())
}

func TestPollCancellationStopsPolling(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []models.PaymentStatus{models.StatusPending}}
	r := NewReconciler(fetcher, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	updates := r.Poll(ctx, "T200")

	first, ok := <-updates
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, first.Status)

	cancel()
	for range updates {
		// drain until the stream closes
	}

	settled := fetcher.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, fetcher.callCount())
}

func TestCancelSessionStopsBoundPolls(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []models.PaymentStatus{models.StatusPending}}
	r := NewReconciler(fetcher, 10*time.Millisecond)

	updates := r.Poll(context.Background(), "T400")
	r.BindSession("sess-1", "T400")

	first, ok := <-updates
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, first.Status)

	// Abandoning the session kills the poll even though the SSE client is
	// still connected.
	r.CancelSession("sess-1")
	for range updates {
	}

	settled := fetcher.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, fetcher.callCount())

	// Unbound sessions are a no-op.
	r.CancelSession("sess-2")
}

func TestRepollReplacesExistingPoll(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []models.PaymentStatus{models.StatusPending}}
	r := NewReconciler(fetcher, 10*time.Millisecond)
	ctx := context.Background()

	first := r.Poll(ctx, "T300")
	_, ok := <-first
	require.True(t, ok)

	second := r.Poll(ctx, "T300")

	// The first stream closes without ever reaching a terminal status.
	for update := range first {
		assert.False(t, update.Terminal)
	}

	update, ok := <-second
	require.True(t, ok, "replacement poll keeps running")
	assert.Equal(t, models.StatusPending, update.Status)

	r.Cancel("T300")
	for range second {
	}
}
