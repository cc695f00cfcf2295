package handlers

import (
	"errors"
	"io"
	"net/http"

	"haven/gateway"
	"haven/middleware"
	"haven/models"
	"haven/services/notify"
	"haven/services/reservation"
	"haven/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReservationHandler exposes the reservation session flow over HTTP.
type ReservationHandler struct {
	Sessions reservation.SessionService
	Bus      *notify.Bus
	logger   *zap.Logger
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(sessions reservation.SessionService, bus *notify.Bus, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Sessions: sessions, Bus: bus, logger: logger}
}

// respondFlowError translates engine errors into HTTP responses. Flow errors
// keep their machine-readable code; backend errors relay the backend's message
// verbatim.
func respondFlowError(c *gin.Context, err error) {
	var flowErr *reservation.FlowError
	if errors.As(err, &flowErr) {
		status := http.StatusUnprocessableEntity
		switch flowErr.Code {
		case reservation.CodeSessionNotFound:
			status = http.StatusNotFound
		case reservation.CodeInvalidState, reservation.CodeConfirmInFlight:
			status = http.StatusConflict
		}
		c.JSON(status, flowErr)
		return
	}

	var backendErr *gateway.ErrBackend
	if errors.As(err, &backendErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": backendErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// OpenSession starts a reservation session for a room.
func (h *ReservationHandler) OpenSession(c *gin.Context) {
	var input struct {
		RoomID       int                 `json:"roomId" binding:"required"`
		CheckIn      string              `json:"checkIn"`
		DurationCode models.DurationCode `json:"durationCode"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	profileVal, exists := c.Get(middleware.CtxProfile)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "code": "login_required"})
		return
	}
	profile := profileVal.(models.Profile)

	draft, err := h.Sessions.Open(c.Request.Context(), profile, input.RoomID, input.CheckIn, input.DurationCode)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

// GetSession returns the current draft.
func (h *ReservationHandler) GetSession(c *gin.Context) {
	draft, err := h.Sessions.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// UpdateSession applies a partial draft edit.
func (h *ReservationHandler) UpdateSession(c *gin.Context) {
	var upd reservation.DraftUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	draft, err := h.Sessions.Update(c.Request.Context(), c.Param("sessionID"), upd)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// AdvanceSession moves the draft from gathering to pricing.
func (h *ReservationHandler) AdvanceSession(c *gin.Context) {
	draft, err := h.Sessions.Advance(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// GoBack returns the draft from pricing to gathering for edits.
func (h *ReservationHandler) GoBack(c *gin.Context) {
	draft, err := h.Sessions.GoBack(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SelectChannel records the payment channel and prices the draft.
func (h *ReservationHandler) SelectChannel(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	draft, err := h.Sessions.SelectChannel(c.Request.Context(), c.Param("sessionID"), input.Code)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// ConfirmSession submits the draft as an order.
func (h *ReservationHandler) ConfirmSession(c *gin.Context) {
	draft, err := h.Sessions.Confirm(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// StreamSessionEvents streams the session's lifecycle and payment events as
// server-sent events until the client disconnects or the session closes.
func (h *ReservationHandler) StreamSessionEvents(c *gin.Context) {
	sessionID := c.Param("sessionID")
	events, unsubscribe := h.Bus.Subscribe(sessionID)
	defer unsubscribe()

	h.logger.Debug("session event stream opened", zap.String("sessionID", sessionID))
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Kind, event)
			return event.Kind != notify.KindSessionClosed
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// CancelSession abandons the draft.
func (h *ReservationHandler) CancelSession(c *gin.Context) {
	if err := h.Sessions.Cancel(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"canceled": true})
}
