package payment

import (
	"context"
	"sync"
	"time"

	"haven/models"
	"haven/utils"

	"go.uber.org/zap"
)

// IsPaymentCompleted reports whether a status is terminal-success.
func IsPaymentCompleted(status models.PaymentStatus) bool {
	return status == models.StatusPaid || status == models.StatusSettled
}

// IsPaymentFailed reports whether a status is terminal-failure.
func IsPaymentFailed(status models.PaymentStatus) bool {
	switch status {
	case models.StatusExpired, models.StatusCanceled, models.StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further state change is expected for a status.
func IsTerminal(status models.PaymentStatus) bool {
	return IsPaymentCompleted(status) || IsPaymentFailed(status)
}

// StatusFetcher is the slice of the gateway client the reconciler polls.
type StatusFetcher interface {
	PaymentDetail(ctx context.Context, reference string) (models.PaymentDetail, error)
}

// StatusUpdate is one observation of a payment's state.
type StatusUpdate struct {
	Reference string               `json:"reference"`
	Status    models.PaymentStatus `json:"status"`
	Terminal  bool                 `json:"terminal"`
}

// Reconciler observes externally-processed payments by re-fetching their status
// on a fixed cadence until a terminal state is seen. It never writes payment
// state. Polls are singular per reference: starting a new poll replaces the old
// one, and canceling the caller's context stops the poll immediately. A poll
// bound to a reservation session also dies when that session is abandoned.
type Reconciler struct {
	Fetcher  StatusFetcher
	Interval time.Duration

	mu       sync.Mutex
	active   map[string]context.CancelFunc
	owner    map[string]string              // reference -> session
	sessions map[string]map[string]struct{} // session -> references
}

// NewReconciler constructs a Reconciler polling at the given interval.
func NewReconciler(fetcher StatusFetcher, interval time.Duration) *Reconciler {
	return &Reconciler{
		Fetcher:  fetcher,
		Interval: interval,
		active:   make(map[string]context.CancelFunc),
		owner:    make(map[string]string),
		sessions: make(map[string]map[string]struct{}),
	}
}

// Poll starts observing the given reference and returns a stream of status
// updates. The first fetch happens immediately, then every interval while the
// status is non-terminal. The stream closes after the terminal update, when ctx
// is canceled, or when a newer Poll for the same reference replaces this one.
// Individual fetch failures are logged and retried on the next tick; polling is
// the one retry-by-design path in the engine.
func (r *Reconciler) Poll(ctx context.Context, reference string) <-chan StatusUpdate {
	pollCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if existing, ok := r.active[reference]; ok {
		existing()
	}
	r.active[reference] = cancel
	r.mu.Unlock()

	updates := make(chan StatusUpdate, 1)
	go r.run(pollCtx, reference, updates)
	return updates
}

// Cancel stops any active poll for the reference. Safe to call when none exists.
func (r *Reconciler) Cancel(reference string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.active[reference]; ok {
		cancel()
		delete(r.active, reference)
	}
	r.unbindLocked(reference)
}

// BindSession ties an active poll to the reservation session that owns it. A
// reference belongs to at most one session; rebinding moves it.
func (r *Reconciler) BindSession(sessionID, reference string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unbindLocked(reference)
	r.owner[reference] = sessionID
	if r.sessions[sessionID] == nil {
		r.sessions[sessionID] = make(map[string]struct{})
	}
	r.sessions[sessionID][reference] = struct{}{}
}

// CancelSession stops every poll bound to the session, so abandoning a
// reservation leaves no poll behind.
func (r *Reconciler) CancelSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for reference := range r.sessions[sessionID] {
		if cancel, ok := r.active[reference]; ok {
			cancel()
			delete(r.active, reference)
		}
		delete(r.owner, reference)
	}
	delete(r.sessions, sessionID)
}

// unbindLocked drops a reference's session binding. Caller holds r.mu.
func (r *Reconciler) unbindLocked(reference string) {
	sessionID, ok := r.owner[reference]
	if !ok {
		return
	}
	delete(r.owner, reference)
	delete(r.sessions[sessionID], reference)
	if len(r.sessions[sessionID]) == 0 {
		delete(r.sessions, sessionID)
	}
}

func (r *Reconciler) run(ctx context.Context, reference string, updates chan<- StatusUpdate) {
	logger := utils.GetLogger()
	defer close(updates)
	defer r.release(ctx, reference)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		detail, err := r.Fetcher.PaymentDetail(ctx, reference)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("payment status fetch failed, will retry",
				zap.String("reference", reference), zap.Error(err))
		} else {
			update := StatusUpdate{
				Reference: reference,
				Status:    detail.Status,
				Terminal:  IsTerminal(detail.Status),
			}
			select {
			case updates <- update:
			case <-ctx.Done():
				return
			}
			if update.Terminal {
				return
			}
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// release drops the registry entry unless a replacement poll has taken it over.
func (r *Reconciler) release(ctx context.Context, reference string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.active[reference]; ok && ctx.Err() == nil {
		cancel()
		delete(r.active, reference)
		r.unbindLocked(reference)
	}
}
