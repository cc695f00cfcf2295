package reservation

import (
	"context"
	"errors"
	"testing"

	"haven/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	profileErr     error
	transactionErr error
	orderNumber    string

	calls        []string
	syncedUpdate models.ProfileUpdate
	createdReq   models.CreateTransactionRequest
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	f.calls = append(f.calls, "profile")
	f.syncedUpdate = upd
	return f.profileErr
}

func (f *fakeBackend) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (string, error) {
	f.calls = append(f.calls, "transaction")
	f.createdReq = req
	return f.orderNumber, f.transactionErr
}

func sagaDraft() *models.BookingDraft {
	draft := &models.BookingDraft{
		SessionID: "sess-1",
		State:     models.StatePricing,
		Room: models.Room{
			ID:    7,
			KosID: 3,
			Packages: []models.RoomPackage{
				{ID: 21, DurationCode: models.DurationMonth, Price: 1500000},
			},
		},
		CheckIn:      day("2024-06-15"),
		DurationCode: models.DurationMonth,
		Guest:        models.Guest{Name: "Rizki", Email: "rizki@example.com", Phone: "081234567890"},
	}
	draft.CheckOut = AddDuration(draft.CheckIn, draft.DurationCode)
	draft.Price = 1500000
	return draft
}

func TestSubmitRunsStepsInOrder(t *testing.T) {
	backend := &fakeBackend{orderNumber: "ORD-99"}
	submitter := &DefaultSubmitter{Backend: backend, DefaultPackageID: 1}

	orderNumber, err := submitter.Submit(context.Background(), sagaDraft())
	require.NoError(t, err)
	assert.Equal(t, "ORD-99", orderNumber)
	assert.Equal(t, []string{"profile", "transaction"}, backend.calls)

	assert.Equal(t, "Rizki", backend.syncedUpdate.Name)
	assert.Equal(t, int64(1500000), backend.createdReq.Amount)
	assert.Equal(t, 1, backend.createdReq.Quantity)
	assert.Equal(t, "2024-06-15", backend.createdReq.CheckIn)
	assert.Equal(t, "2024-07-15", backend.createdReq.CheckOut)
	assert.Equal(t, 7, backend.createdReq.RoomID)
	assert.Equal(t, 3, backend.createdReq.KosID)
	assert.Equal(t, 21, backend.createdReq.PackageID)
}

func TestSubmitAbortsWhenProfileSyncFails(t *testing.T) {
	backend := &fakeBackend{profileErr: errors.New("backend unavailable")}
	submitter := &DefaultSubmitter{Backend: backend, DefaultPackageID: 1}

	_, err := submitter.Submit(context.Background(), sagaDraft())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile synchronization failed")

	// Step 2 never executes after a step-1 failure.
	assert.Equal(t, []string{"profile"}, backend.calls)
}

func TestSubmitSurfacesTransactionFailureWithoutRollback(t *testing.T) {
	backend := &fakeBackend{transactionErr: errors.New("kamar penuh")}
	submitter := &DefaultSubmitter{Backend: backend, DefaultPackageID: 1}

	_, err := submitter.Submit(context.Background(), sagaDraft())
	require.EqualError(t, err, "kamar penuh")

	// Both steps ran; the profile stays updated with no compensating call.
	assert.Equal(t, []string{"profile", "transaction"}, backend.calls)
}

func TestSubmitFallsBackToDefaultPackage(t *testing.T) {
	backend := &fakeBackend{orderNumber: "ORD-100"}
	submitter := &DefaultSubmitter{Backend: backend, DefaultPackageID: 1}

	draft := sagaDraft()
	draft.Room.Packages = nil

	_, err := submitter.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.createdReq.PackageID)
}
