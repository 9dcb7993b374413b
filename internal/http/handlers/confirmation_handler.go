// Checkout confirmation-block HTTP handlers.
//
//   - GET /confirmation  (current settings, defaults when never saved)
//   - PUT /confirmation  (validate and persist to shop metafields)
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

// ConfirmationService defines the checkout confirmation-block operations.
type ConfirmationService interface {
	// Save validates and persists the settings.
	Save(ctx context.Context, raw []byte) (*validation.ConfirmationForm, validation.FieldErrors, error)
	// Get returns the current settings with defaults applied.
	Get(ctx context.Context) (*validation.ConfirmationForm, error)
}

// GetConfirmation returns the current confirmation-block settings.
func (h *Handlers) GetConfirmation(c *gin.Context) {
	form, err := h.confSvc.Get(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, form)
}

// SaveConfirmation validates and stores the confirmation-block settings.
func (h *Handlers) SaveConfirmation(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "settings payload required")
		return
	}

	form, ferrs, err := h.confSvc.Save(c.Request.Context(), raw)
	if err != nil {
		failService(c, err)
		return
	}
	if len(ferrs) > 0 {
		failValidation(c, ferrs)
		return
	}
	ok(c, http.StatusOK, form)
}
