package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/marutto-legal/go-legal-pages/internal/crypto"
	"github.com/marutto-legal/go-legal-pages/internal/domain"
	"github.com/marutto-legal/go-legal-pages/internal/registry"
	"github.com/marutto-legal/go-legal-pages/internal/repo"
	"github.com/marutto-legal/go-legal-pages/internal/shopify"
)

// TemplateUpdateService re-renders existing pages against the current
// template revision. Stored form data is the source of truth: an update
// decrypts it, re-validates it against the current schema, regenerates the
// HTML, pushes it to Shopify when the page is live, and stamps the new schema
// version. Re-encryption on write doubles as lazy migration for records
// persisted before encryption-at-rest.
type TemplateUpdateService struct {
	DB      *gorm.DB
	Codec   *crypto.Codec
	Catalog *registry.Catalog
	Pages   shopify.PageAPI
}

// UpdateResult reports one template update attempt. A non-empty RedirectTo
// means the stored form can no longer drive an automatic update and the
// merchant has to walk the wizard again.
type UpdateResult struct {
	PageType         string `json:"page_type"`
	Success          bool   `json:"success"`
	NewSchemaVersion int    `json:"new_schema_version,omitempty"`
	RedirectTo       string `json:"redirect_to,omitempty"`
	Message          string `json:"message,omitempty"`
}

// PendingUpdate is one page whose template is behind, with the changelog
// entries the merchant has not seen yet.
type PendingUpdate struct {
	PageType       string                  `json:"page_type"`
	Title          string                  `json:"title"`
	StoredVersion  int                     `json:"stored_version"`
	CurrentVersion int                     `json:"current_version"`
	Changes        []registry.VersionEntry `json:"changes"`
}

func wizardRedirect(pageType, message string) *UpdateResult {
	return &UpdateResult{
		PageType:   pageType,
		RedirectTo: "/wizard/" + pageType,
		Message:    message,
	}
}

// Apply updates a single page to the current template version.
//
// Unrecoverable form data (undecryptable, or failing current-schema
// validation) is not an error: the result carries a wizard redirect and the
// record is left untouched. A version conflict during the closing write
// returns ErrStaleVersion.
func (s *TemplateUpdateService) Apply(ctx context.Context, storeID, pageType string) (*UpdateResult, error) {
	tr := otel.Tracer("services/TemplateUpdateService")
	ctx, span := tr.Start(ctx, "Apply",
		trace.WithAttributes(
			attribute.String("store.id", storeID),
			attribute.String("page.type", pageType),
		),
	)
	defer span.End()

	cfg, ok := s.Catalog.Get(pageType)
	if !ok {
		return nil, ErrInvalidPageType
	}

	page, err := repo.GetLegalPage(ctx, s.DB, storeID, pageType)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}

	if page.FormData == nil {
		return wizardRedirect(pageType, "保存されたフォームデータがありません。"), nil
	}
	formJSON, err := s.Codec.Decrypt(*page.FormData)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("page_type", pageType).
			Msg("stored form data undecryptable; redirecting to wizard")
		return wizardRedirect(pageType, "保存されたデータを読み込めませんでした。もう一度入力してください。"), nil
	}

	form, ferrs, err := cfg.Validate([]byte(formJSON))
	if err != nil {
		return wizardRedirect(pageType, "保存されたデータを読み込めませんでした。もう一度入力してください。"), nil
	}
	if len(ferrs) > 0 {
		return wizardRedirect(pageType, "保存されたデータが現在の入力項目と合いません。内容を確認してください。"), nil
	}

	contentHTML := cfg.GenerateHTML(cfg.NormalizeForm(form))

	fields := map[string]any{
		"content_html":        &contentHTML,
		"form_schema_version": cfg.CurrentVersion(),
	}

	if page.Status == domain.StatusPublished && page.ShopifyPageID != nil {
		remote, err := s.Pages.GetPage(ctx, *page.ShopifyPageID)
		if err != nil {
			return nil, err
		}
		if remote != nil {
			if err := s.Pages.UpdatePage(ctx, *page.ShopifyPageID, shopify.UpdatePageInput{
				BodyHTML: &contentHTML,
			}); err != nil {
				return nil, err
			}
		} else {
			res, err := s.Pages.CreatePage(ctx, shopify.CreatePageInput{
				Title:     cfg.ShopifyPageTitle,
				Handle:    cfg.Handle,
				BodyHTML:  contentHTML,
				Published: false,
			})
			if err != nil {
				return nil, err
			}
			fields["shopify_page_id"] = &res.PageID
		}
	}

	// Re-encrypt on every update: legacy plaintext records migrate to the
	// envelope format the first time a template update touches them.
	sealed, err := s.Codec.Encrypt(formJSON)
	if err != nil {
		return nil, err
	}
	fields["form_data"] = &sealed

	err = repo.UpdateLegalPageGuarded(ctx, s.DB, page.ID, page.Version, fields)
	if errors.Is(err, repo.ErrStaleVersion) {
		return nil, ErrStaleVersion
	}
	if err != nil {
		return nil, err
	}

	return &UpdateResult{
		PageType:         pageType,
		Success:          true,
		NewSchemaVersion: cfg.CurrentVersion(),
	}, nil
}

// ApplyAll updates every page of the store that is behind the current
// template. Per-page failures land in that page's result; only
// infrastructure errors abort the sweep.
func (s *TemplateUpdateService) ApplyAll(ctx context.Context, storeID string) ([]UpdateResult, error) {
	pages, err := repo.ListLegalPages(ctx, s.DB, storeID)
	if err != nil {
		return nil, err
	}

	var out []UpdateResult
	for i := range pages {
		page := &pages[i]
		cfg, ok := s.Catalog.Get(page.PageType)
		if !ok || !cfg.NeedsUpdate(page.FormSchemaVersion) {
			continue
		}
		res, err := s.Apply(ctx, storeID, page.PageType)
		if err != nil {
			out = append(out, UpdateResult{
				PageType: page.PageType,
				Message:  err.Error(),
			})
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

// PendingUpdates lists the store's pages whose template is behind, with the
// changelog the merchant should review before applying.
func (s *TemplateUpdateService) PendingUpdates(ctx context.Context, storeID string) ([]PendingUpdate, error) {
	pages, err := repo.ListLegalPages(ctx, s.DB, storeID)
	if err != nil {
		return nil, err
	}

	var out []PendingUpdate
	for i := range pages {
		page := &pages[i]
		cfg, ok := s.Catalog.Get(page.PageType)
		if !ok || !cfg.NeedsUpdate(page.FormSchemaVersion) {
			continue
		}
		out = append(out, PendingUpdate{
			PageType:       page.PageType,
			Title:          cfg.Title,
			StoredVersion:  page.FormSchemaVersion,
			CurrentVersion: cfg.CurrentVersion(),
			Changes:        s.Catalog.PendingUpdates(page.PageType, page.FormSchemaVersion),
		})
	}
	return out, nil
}
