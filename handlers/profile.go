package handlers

import (
	"io"
	"net/http"

	"haven/gateway"
	"haven/models"
	"haven/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// documentFields are the multipart file fields of the backend's upload contract.
var documentFields = []string{"identity_card", "selfie_with_card"}

// ProfileHandler exposes the document remediation flow callers are pointed at
// when the reservation gate rejects them with documents_required.
type ProfileHandler struct {
	Gateway *gateway.Client
	logger  *zap.Logger
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(gw *gateway.Client, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{Gateway: gw, logger: logger}
}

// UploadDocuments synchronizes the caller's contact fields and attaches both
// identity documents as a multipart form. Both files are required; the backend
// stores them and the document gate passes on the next attempt.
func (h *ProfileHandler) UploadDocuments(c *gin.Context) {
	upd := models.ProfileUpdate{
		Name:  c.PostForm("name"),
		Email: c.PostForm("email"),
		Phone: c.PostForm("phone"),
	}

	files := make(map[string]io.Reader, len(documentFields))
	for _, field := range documentFields {
		header, err := c.FormFile(field)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "missing document", field)
			return
		}
		file, err := header.Open()
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "unreadable document", field)
			return
		}
		defer file.Close()
		files[field] = file
	}

	if err := h.Gateway.UpdateProfileWithDocuments(c.Request.Context(), upd, files); err != nil {
		respondFlowError(c, err)
		return
	}
	h.logger.Info("identity documents uploaded")
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
