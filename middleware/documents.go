package middleware

import (
	"context"
	"net/http"

	"haven/models"
	"haven/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CtxProfile holds the fetched profile for handlers to seed drafts from.
const CtxProfile = "profile"

// ProfileFetcher is the slice of the gateway client the document gate uses.
type ProfileFetcher interface {
	Profile(ctx context.Context) (models.Profile, error)
}

// DocumentGateMiddleware enforces the reservation flow's entry precondition:
// the caller must have both required identity documents on file. Evaluated once,
// before any session is opened; callers missing documents are pointed at the
// upload remediation flow instead of entering the booking flow.
func DocumentGateMiddleware(fetcher ProfileFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		profile, err := fetcher.Profile(c.Request.Context())
		if err != nil {
			logger.Warn("failed to fetch profile for document gate", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
				"code":  "login_required",
			})
			return
		}

		if !profile.HasRequiredDocuments() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "identity documents are required before booking",
				"code":  "documents_required",
			})
			return
		}

		c.Set(CtxProfile, profile)
		c.Next()
	}
}
