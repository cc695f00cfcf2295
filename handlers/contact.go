package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"haven/gateway"

	"github.com/gin-gonic/gin"
)

// ContactHandler builds the post-confirmation human-handoff deep link.
type ContactHandler struct {
	Gateway *gateway.Client
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(gw *gateway.Client) *ContactHandler {
	return &ContactHandler{Gateway: gw}
}

// WhatsAppLink returns a wa.me deep link to the administrator, prefilled with
// the caller's order number when supplied.
func (h *ContactHandler) WhatsAppLink(c *gin.Context) {
	phone, err := h.Gateway.AdminContact(c.Request.Context())
	if err != nil {
		respondFlowError(c, err)
		return
	}

	link := "https://wa.me/" + normalizePhone(phone)
	if order := c.Query("order"); order != "" {
		text := fmt.Sprintf("Halo admin, saya ingin menanyakan pesanan %s", order)
		link += "?text=" + url.QueryEscape(text)
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}

// normalizePhone strips formatting and converts a leading local 0 to the
// Indonesian country code, as wa.me requires international digits only.
func normalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if strings.HasPrefix(number, "0") {
		number = "62" + number[1:]
	}
	return number
}
