package routes

import (
	"haven/handlers"
	"haven/middleware"

	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers and middleware the router mounts.
type HandlerBundle struct {
	Reservation    *handlers.ReservationHandler
	Payment        *handlers.PaymentHandler
	Contact        *handlers.ContactHandler
	Profile        *handlers.ProfileHandler
	ProfileFetcher middleware.ProfileFetcher
}

// RegisterRoutes mounts every endpoint of the reservation engine.
func RegisterRoutes(r *gin.Engine, b *HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())

	reservations := api.Group("/reservations")
	{
		// Opening a session is gated on identity documents; the gate also
		// fetches the profile the draft is seeded from.
		reservations.POST("", middleware.DocumentGateMiddleware(b.ProfileFetcher), b.Reservation.OpenSession)
		reservations.GET("/:sessionID", b.Reservation.GetSession)
		reservations.PUT("/:sessionID", b.Reservation.UpdateSession)
		reservations.POST("/:sessionID/advance", b.Reservation.AdvanceSession)
		reservations.POST("/:sessionID/back", b.Reservation.GoBack)
		reservations.PUT("/:sessionID/channel", b.Reservation.SelectChannel)
		reservations.POST("/:sessionID/confirm", b.Reservation.ConfirmSession)
		reservations.GET("/:sessionID/events", b.Reservation.StreamSessionEvents)
		reservations.DELETE("/:sessionID", b.Reservation.CancelSession)
	}

	payments := api.Group("/payments")
	{
		payments.GET("/channels", b.Payment.ListChannels)
		payments.POST("", b.Payment.CreatePayment)
		payments.GET("/:reference/status", b.Payment.StreamPaymentStatus)
	}

	// Remediation flow for callers rejected with documents_required.
	api.POST("/profile/documents", b.Profile.UploadDocuments)

	api.GET("/contact/whatsapp", b.Contact.WhatsAppLink)
}
