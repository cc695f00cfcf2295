package handlers

import (
	"io"
	"net/http"

	"haven/config"
	"haven/gateway"
	"haven/models"
	"haven/services/notify"
	"haven/services/payment"
	"haven/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the channel catalog, payment initiation, and the
// status stream.
type PaymentHandler struct {
	Catalog    payment.ChannelCatalog
	Reconciler *payment.Reconciler
	Gateway    *gateway.Client
	Bus        *notify.Bus
	logger     *zap.Logger
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(catalog payment.ChannelCatalog, reconciler *payment.Reconciler, gw *gateway.Client, bus *notify.Bus, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Catalog: catalog, Reconciler: reconciler, Gateway: gw, Bus: bus, logger: logger}
}

// ListChannels returns the active payment channels.
func (h *PaymentHandler) ListChannels(c *gin.Context) {
	channels, err := h.Catalog.ListChannels(c.Request.Context())
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// CreatePayment initiates a gateway payment for an order. A merchant reference
// is generated client-side when the gateway does not assign one.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var input struct {
		OrderNumber string `json:"orderNumber" binding:"required"`
		ChannelCode string `json:"channelCode" binding:"required"`
		Amount      int64  `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	channel, err := h.Catalog.FindChannel(c.Request.Context(), input.ChannelCode)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	if channel == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown payment channel", "code": "unknownChannel"})
		return
	}

	detail, err := h.Gateway.CreatePayment(c.Request.Context(), models.CreatePaymentRequest{
		OrderNumber: input.OrderNumber,
		ChannelCode: channel.Code,
		Amount:      payment.CalculateTotal(input.Amount, *channel),
		MerchantRef: utils.NewMerchantRef(config.AppConfig.MerchantRefPrefix),
	})
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// StreamPaymentStatus streams observed payment statuses as server-sent events
// until a terminal status is reached. Closing the connection cancels the
// underlying poll, so no poll outlives the caller's interest. When the caller
// names its reservation session, each observation is also published on that
// session's event stream.
func (h *PaymentHandler) StreamPaymentStatus(c *gin.Context) {
	reference := c.Param("reference")
	sessionID := c.Query("session")
	updates := h.Reconciler.Poll(c.Request.Context(), reference)
	if sessionID != "" {
		h.Reconciler.BindSession(sessionID, reference)
	}

	h.logger.Debug("payment status stream opened", zap.String("reference", reference))
	c.Stream(func(w io.Writer) bool {
		update, ok := <-updates
		if !ok {
			return false
		}
		if sessionID != "" {
			h.Bus.Publish(notify.Event{
				SessionID: sessionID,
				Kind:      notify.KindPaymentStatus,
				Payload:   update,
			})
		}
		c.SSEvent("status", update)
		return !update.Terminal
	})
}
