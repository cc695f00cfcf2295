package reservation

import (
	"context"
	"fmt"

	"haven/models"
	"haven/utils"

	"go.uber.org/zap"
)

// Backend is the slice of the gateway client the submitter drives.
type Backend interface {
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error
	CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (string, error)
}

// Submitter turns a validated draft into a persisted order, returning the
// backend-assigned order number.
type Submitter interface {
	Submit(ctx context.Context, draft *models.BookingDraft) (string, error)
}

// DefaultSubmitter executes the two-call saga: synchronize the profile with the
// draft's guest fields, then create the booking transaction. The steps are
// strictly sequential; a step-1 failure aborts before step 2 is attempted. A
// step-2 failure after step 1 succeeded leaves the profile updated with no
// order — an accepted inconsistency window, surfaced as an ordinary failure
// with no compensating rollback.
type DefaultSubmitter struct {
	Backend          Backend
	DefaultPackageID int
}

// Submit runs the saga for the given draft.
func (s *DefaultSubmitter) Submit(ctx context.Context, draft *models.BookingDraft) (string, error) {
	logger := utils.GetLogger()

	if err := s.Backend.UpdateProfile(ctx, models.ProfileUpdate{
		Name:  draft.Guest.Name,
		Email: draft.Guest.Email,
		Phone: draft.Guest.Phone,
	}); err != nil {
		return "", fmt.Errorf("profile synchronization failed: %w", err)
	}

	packageID := s.DefaultPackageID
	if pkg, ok := draft.Room.PackageFor(draft.DurationCode); ok {
		packageID = pkg.ID
	}

	orderNumber, err := s.Backend.CreateTransaction(ctx, models.CreateTransactionRequest{
		Amount:    draft.Price,
		Quantity:  1,
		CheckIn:   draft.CheckIn.Format(models.DateLayout),
		CheckOut:  draft.CheckOut.Format(models.DateLayout),
		RoomID:    draft.Room.ID,
		KosID:     draft.Room.KosID,
		PackageID: packageID,
	})
	if err != nil {
		logger.Warn("transaction creation failed after profile sync",
			zap.String("sessionID", draft.SessionID), zap.Error(err))
		return "", err
	}

	logger.Info("reservation order created",
		zap.String("sessionID", draft.SessionID),
		zap.String("orderNumber", orderNumber))
	return orderNumber, nil
}
