package services

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

// ConfirmationAPI is the slice of the Shopify admin client the confirmation
// service needs. Settings live in shop metafields, not in the local database.
type ConfirmationAPI interface {
	SaveConfirmationMetafields(ctx context.Context, form *validation.ConfirmationForm) error
	GetConfirmationMetafields(ctx context.Context) (*validation.ConfirmationForm, error)
}

// ConfirmationService manages the checkout confirmation-block settings.
type ConfirmationService struct {
	API ConfirmationAPI
}

// Save validates the settings and writes them to shop metafields. Field
// errors come back as the middle return; transport failures as the last.
func (s *ConfirmationService) Save(ctx context.Context, raw []byte) (*validation.ConfirmationForm, validation.FieldErrors, error) {
	tr := otel.Tracer("services/ConfirmationService")
	ctx, span := tr.Start(ctx, "Save")
	defer span.End()

	form, ferrs, err := validation.ValidateConfirmation(raw)
	if err != nil {
		return nil, nil, err
	}
	if len(ferrs) > 0 {
		return nil, ferrs, nil
	}
	if err := s.API.SaveConfirmationMetafields(ctx, form); err != nil {
		return nil, nil, err
	}
	return form, nil, nil
}

// Get returns the current settings, defaults included for never-saved fields.
func (s *ConfirmationService) Get(ctx context.Context) (*validation.ConfirmationForm, error) {
	return s.API.GetConfirmationMetafields(ctx)
}
