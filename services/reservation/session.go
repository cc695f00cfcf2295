// File: services/reservation/session.go
package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"haven/models"
	"haven/services/availability"
	"haven/services/notify"
	"haven/services/payment"
	"haven/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// confirmLockTTL bounds how long a crashed confirm can hold its lock.
const confirmLockTTL = 30 * time.Second

// RoomFetcher is the slice of the gateway client the session service reads
// room data through.
type RoomFetcher interface {
	RoomDetail(ctx context.Context, roomID int) (models.Room, error)
}

// PollCanceler stops the payment polls bound to a session.
type PollCanceler interface {
	CancelSession(sessionID string)
}

// DraftUpdate is a partial mutation of a draft's editable fields. Nil fields
// are left untouched.
type DraftUpdate struct {
	CheckIn      *string              `json:"checkIn,omitempty"`
	DurationCode *models.DurationCode `json:"durationCode,omitempty"`
	Name         *string              `json:"name,omitempty"`
	Email        *string              `json:"email,omitempty"`
	Phone        *string              `json:"phone,omitempty"`
}

// SessionService walks a reservation draft through the booking flow:
// Gathering -> Pricing -> Confirmed, with an explicit edit action back to
// Gathering. Exactly one draft is live per session.
type SessionService interface {
	Open(ctx context.Context, profile models.Profile, roomID int, checkIn string, duration models.DurationCode) (*models.BookingDraft, error)
	Get(ctx context.Context, sessionID string) (*models.BookingDraft, error)
	Update(ctx context.Context, sessionID string, upd DraftUpdate) (*models.BookingDraft, error)
	Advance(ctx context.Context, sessionID string) (*models.BookingDraft, error)
	GoBack(ctx context.Context, sessionID string) (*models.BookingDraft, error)
	SelectChannel(ctx context.Context, sessionID, code string) (*models.BookingDraft, error)
	Confirm(ctx context.Context, sessionID string) (*models.BookingDraft, error)
	Cancel(ctx context.Context, sessionID string) error
}

// DefaultSessionService implements SessionService over a Redis-backed draft
// store. Every mutation recomputes derived fields before the draft is saved,
// so a reader never observes a draft mid-recomputation.
type DefaultSessionService struct {
	Rooms     RoomFetcher
	Catalog   payment.ChannelCatalog
	Submitter Submitter
	Cache     *redis.Client
	Bus       *notify.Bus
	Polls     PollCanceler
	TTL       time.Duration
}

// Open starts a session for a room: fetches the room detail, parses its
// availability windows, and seeds the draft from the authenticated profile
// plus caller-supplied defaults (check-in defaults to today, duration to one
// month).
func (s *DefaultSessionService) Open(ctx context.Context, profile models.Profile, roomID int, checkIn string, duration models.DurationCode) (*models.BookingDraft, error) {
	room, err := s.Rooms.RoomDetail(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room detail: %w", err)
	}

	start := models.Midnight(time.Now())
	if checkIn != "" {
		parsed, err := time.Parse(models.DateLayout, checkIn)
		if err != nil {
			return nil, newFlowError(CodeInvalidDate, fmt.Sprintf("check-in date %q is not a valid %s date", checkIn, models.DateLayout))
		}
		start = parsed
	}
	if duration == "" {
		duration = models.DefaultDuration
	}
	if !models.ValidDurationCode(duration) {
		return nil, newFlowError(CodeInvalidDuration, fmt.Sprintf("unknown duration code %q", duration))
	}

	draft := &models.BookingDraft{
		SessionID:    uuid.New().String(),
		State:        models.StateGathering,
		UserID:       profile.ID,
		Room:         room,
		Periods:      availability.ParsePeriods(room.Availability),
		CheckIn:      start,
		DurationCode: duration,
		Guest: models.Guest{
			Name:  profile.Name,
			Email: profile.Email,
			Phone: profile.Phone,
		},
	}
	recompute(draft)

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	s.publish(draft, notify.KindSessionOpened, nil)
	return draft, nil
}

// Get returns the current draft for a session.
func (s *DefaultSessionService) Get(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	return s.load(ctx, sessionID)
}

// Update applies a partial mutation in the Gathering state and recomputes the
// derived fields before returning.
func (s *DefaultSessionService) Update(ctx context.Context, sessionID string, upd DraftUpdate) (*models.BookingDraft, error) {
	draft, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.State != models.StateGathering {
		return nil, newFlowError(CodeInvalidState, "draft fields can only be edited while gathering details")
	}

	if upd.CheckIn != nil {
		parsed, err := time.Parse(models.DateLayout, *upd.CheckIn)
		if err != nil {
			return nil, newFlowError(CodeInvalidDate, fmt.Sprintf("check-in date %q is not a valid %s date", *upd.CheckIn, models.DateLayout))
		}
		draft.CheckIn = parsed
	}
	if upd.DurationCode != nil {
		if !models.ValidDurationCode(*upd.DurationCode) {
			return nil, newFlowError(CodeInvalidDuration, fmt.Sprintf("unknown duration code %q", *upd.DurationCode))
		}
		draft.DurationCode = *upd.DurationCode
	}
	if upd.Name != nil {
		draft.Guest.Name = *upd.Name
	}
	if upd.Email != nil {
		draft.Guest.Email = *upd.Email
	}
	if upd.Phone != nil {
		draft.Guest.Phone = *upd.Phone
	}

	recompute(draft)
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	s.publish(draft, notify.KindDraftUpdated, nil)
	return draft, nil
}

// Advance moves Gathering -> Pricing. Rejected with a specific reason when a
// guest field is blank or the requested range falls outside the room's
// availability windows; the range rejection carries the nearest upcoming
// window as a suggestion.
func (s *DefaultSessionService) Advance(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	draft, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.State != models.StateGathering {
		return nil, newFlowError(CodeInvalidState, "only a gathering session can advance to pricing")
	}

	for _, field := range []struct{ name, value string }{
		{"name", draft.Guest.Name},
		{"email", draft.Guest.Email},
		{"phone", draft.Guest.Phone},
	} {
		if strings.TrimSpace(field.value) == "" {
			return nil, &FlowError{
				Code:    CodeMissingField,
				Message: fmt.Sprintf("guest %s is required", field.name),
				Field:   field.name,
			}
		}
	}

	if !draft.IsValid {
		return nil, &FlowError{
			Code:       CodeUnavailableRange,
			Message:    "the requested stay falls outside the room's availability",
			Suggestion: availability.NearestUpcomingPeriod(draft.Periods, time.Now()),
		}
	}

	draft.State = models.StatePricing
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	s.publish(draft, notify.KindStateChanged, draft.State)
	return draft, nil
}

// GoBack returns Pricing -> Gathering with the draft otherwise untouched.
func (s *DefaultSessionService) GoBack(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	draft, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.State != models.StatePricing {
		return nil, newFlowError(CodeInvalidState, "only a pricing session can go back to gathering")
	}

	draft.State = models.StateGathering
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	s.publish(draft, notify.KindStateChanged, draft.State)
	return draft, nil
}

// SelectChannel records the payment channel in the Pricing state and prices
// the draft against it.
func (s *DefaultSessionService) SelectChannel(ctx context.Context, sessionID, code string) (*models.BookingDraft, error) {
	draft, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.State != models.StatePricing {
		return nil, newFlowError(CodeInvalidState, "a payment channel can only be selected while pricing")
	}

	channel, err := s.Catalog.FindChannel(ctx, code)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, newFlowError(CodeUnknownChannel, fmt.Sprintf("payment channel %q is not available", code))
	}

	draft.ChannelCode = channel.Code
	draft.Fee = payment.CalculateFee(draft.Price, *channel)
	draft.Total = payment.CalculateTotal(draft.Price, *channel)
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	s.publish(draft, notify.KindDraftUpdated, nil)
	return draft, nil
}

// Confirm moves Pricing -> Confirmed by delegating to the Submitter. Repeat
// invocations while a submission is outstanding are rejected rather than
// queued; a failed submission leaves the session in Pricing with the backend's
// message surfaced to the caller.
func (s *DefaultSessionService) Confirm(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	logger := utils.GetLogger()

	draft, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.State != models.StatePricing {
		return nil, newFlowError(CodeInvalidState, "only a pricing session can be confirmed")
	}

	lockKey := "confirm:" + sessionID
	acquired, err := s.Cache.SetNX(ctx, lockKey, 1, confirmLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire confirm lock: %w", err)
	}
	if !acquired {
		return nil, newFlowError(CodeConfirmInFlight, "a confirmation is already in flight for this session")
	}

	orderNumber, err := s.Submitter.Submit(ctx, draft)
	if err != nil {
		s.Cache.Del(ctx, lockKey)
		return nil, err
	}

	draft.State = models.StateConfirmed
	draft.OrderNumber = orderNumber
	if err := s.save(ctx, draft); err != nil {
		logger.Error("failed to persist confirmed draft",
			zap.String("sessionID", sessionID),
			zap.String("orderNumber", orderNumber),
			zap.Error(err))
		s.Cache.Del(ctx, lockKey)
		return nil, err
	}
	s.Cache.Del(ctx, lockKey)
	s.publish(draft, notify.KindOrderCreated, orderNumber)
	return draft, nil
}

// Cancel abandons the session: discards its draft and stops any payment poll
// bound to it, so no poll outlives the session.
func (s *DefaultSessionService) Cancel(ctx context.Context, sessionID string) error {
	if err := s.Cache.Del(ctx, sessionID).Err(); err != nil {
		return fmt.Errorf("failed to cancel reservation session: %w", err)
	}
	if s.Polls != nil {
		s.Polls.CancelSession(sessionID)
	}
	if s.Bus != nil {
		s.Bus.Publish(notify.Event{SessionID: sessionID, Kind: notify.KindSessionClosed})
	}
	return nil
}

func (s *DefaultSessionService) load(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	data, err := s.Cache.Get(ctx, sessionID).Result()
	if err != nil {
		return nil, newFlowError(CodeSessionNotFound, "reservation session not found or expired")
	}
	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse reservation session: %w", err)
	}
	return &draft, nil
}

// save writes the draft back with a refreshed TTL, so active sessions slide
// while abandoned ones expire.
func (s *DefaultSessionService) save(ctx context.Context, draft *models.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal reservation session: %w", err)
	}
	if err := s.Cache.Set(ctx, draft.SessionID, data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store reservation session: %w", err)
	}
	return nil
}

func (s *DefaultSessionService) publish(draft *models.BookingDraft, kind string, payload any) {
	if s.Bus != nil {
		s.Bus.Publish(notify.Event{SessionID: draft.SessionID, Kind: kind, Payload: payload})
	}
}
