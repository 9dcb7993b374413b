// Package services – PageService
//
// This file implements PageService, the application-level component that owns
// the lifecycle of legal pages: draft autosave, publishing to Shopify, version
// pre-checks, and remote-deletion reconciliation. It validates inputs through
// the page type catalog, encrypts form data before persistence, and performs
// all local writes through atomic conditional updates.
//
// Publish ordering invariant: all local validation happens before any remote
// call, the version pre-check happens before any remote call, and the final
// local write is guarded. A publish can therefore fail midway leaving a
// remote page without a local reference, but never a local "published" record
// pointing at content Shopify does not have.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// store and page type identifiers.
package services

import (
	"context"
	"errors"
	"time"

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
	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

// DefaultMaxFormBytes caps serialized form payloads at 100KB.
const DefaultMaxFormBytes = 100_000

// DefaultIdempotencyTTL is how long publish results are replayable.
const DefaultIdempotencyTTL = 24 * time.Hour

// PageService coordinates legal page persistence and remote synchronization.
type PageService struct {
	DB      *gorm.DB
	Codec   *crypto.Codec
	Catalog *registry.Catalog
	Pages   shopify.PageAPI
	Plans   PlanChecker

	// Optional guards; zero values fall back to the defaults above.
	MaxFormBytes   int
	IdempotencyTTL time.Duration
}

// PublishInput carries one publish request.
type PublishInput struct {
	StoreID         string
	ShopDomain      string
	PageType        string
	FormJSON        string
	ExpectedVersion *int
	IdempotencyKey  string
}

// PublishResult reports a completed publish.
type PublishResult struct {
	ShopifyPageID string `json:"shopify_page_id"`
	PageHandle    string `json:"page_handle,omitempty"`
	NewVersion    int    `json:"new_version"`
	Replayed      bool   `json:"replayed,omitempty"`
}

// PageData is a decrypted page record plus its template-version standing.
type PageData struct {
	Meta         domain.LegalPageMeta    `json:"meta"`
	FormJSON     string                  `json:"form_data"`
	NeedsUpdate  bool                    `json:"needs_update"`
	ChangesSince []registry.VersionEntry `json:"changes_since,omitempty"`
}

// PageSummary is one dashboard row: catalog info joined with record state.
// The version token is deliberately absent; the dashboard never edits, so it
// never needs a lock token.
type PageSummary struct {
	PageType      string             `json:"page_type"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Status        *domain.PageStatus `json:"status,omitempty"`
	ShopifyPageID *string            `json:"shopify_page_id,omitempty"`
	UpdatedAt     *time.Time         `json:"updated_at,omitempty"`
	NeedsUpdate   bool               `json:"needs_update"`
}

func (s *PageService) maxFormBytes() int {
	if s.MaxFormBytes > 0 {
		return s.MaxFormBytes
	}
	return DefaultMaxFormBytes
}

func (s *PageService) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL > 0 {
		return s.IdempotencyTTL
	}
	return DefaultIdempotencyTTL
}

func (s *PageService) config(pageType string) (*registry.Config, error) {
	cfg, ok := s.Catalog.Get(pageType)
	if !ok {
		return nil, ErrInvalidPageType
	}
	return cfg, nil
}

func (s *PageService) checkForm(formJSON string) error {
	if formJSON == "" {
		return ErrEmptyForm
	}
	if len(formJSON) > s.maxFormBytes() {
		return ErrFormTooLarge
	}
	return nil
}

// SaveDraft stores the form payload without validation or remote calls
// (wizard autosave saves partial forms). The payload is encrypted before it
// touches the database. With an expected version the write is guarded;
// without one it is last-write-wins.
func (s *PageService) SaveDraft(ctx context.Context, storeID, pageType, formJSON string, expectedVersion *int) (*domain.LegalPageMeta, error) {
	tr := otel.Tracer("services/PageService")
	ctx, span := tr.Start(ctx, "SaveDraft",
		trace.WithAttributes(
			attribute.String("store.id", storeID),
			attribute.String("page.type", pageType),
		),
	)
	defer span.End()

	if _, err := s.config(pageType); err != nil {
		return nil, err
	}
	if err := s.checkForm(formJSON); err != nil {
		return nil, err
	}

	sealed, err := s.Codec.Encrypt(formJSON)
	if err != nil {
		return nil, err
	}

	existing, err := repo.GetLegalPageMeta(ctx, s.DB, storeID, pageType)
	switch {
	case err == nil:
		fields := map[string]any{"form_data": &sealed}
		if expectedVersion != nil {
			err = repo.UpdateLegalPageGuarded(ctx, s.DB, existing.ID, *expectedVersion, fields)
		} else {
			err = repo.UpdateLegalPage(ctx, s.DB, existing.ID, fields)
		}
		if errors.Is(err, repo.ErrStaleVersion) {
			return nil, ErrStaleVersion
		}
		if err != nil {
			return nil, err
		}
	case errors.Is(err, repo.ErrNotFound):
		if expectedVersion != nil {
			// First save racing a deleted record, or a client bug.
			// The original record is gone either way; create fresh.
			log.Ctx(ctx).Warn().
				Str("page_type", pageType).
				Int("expected_version", *expectedVersion).
				Msg("expected version supplied for nonexistent page; creating fresh draft")
		}
		if _, err := repo.CreateLegalPage(ctx, s.DB, &domain.LegalPage{
			StoreID:           storeID,
			PageType:          pageType,
			Status:            domain.StatusDraft,
			FormData:          &sealed,
			FormSchemaVersion: 1,
		}); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return repo.GetLegalPageMeta(ctx, s.DB, storeID, pageType)
}

// CheckVersion verifies the caller's version expectation before side effects
// begin. A nil expectation always passes; an expectation against a record
// that does not exist is logged and passes (the publish will create it).
func (s *PageService) CheckVersion(ctx context.Context, storeID, pageType string, expected *int) error {
	if expected == nil {
		return nil
	}
	meta, err := repo.GetLegalPageMeta(ctx, s.DB, storeID, pageType)
	if errors.Is(err, repo.ErrNotFound) {
		log.Ctx(ctx).Warn().
			Str("page_type", pageType).
			Int("expected_version", *expected).
			Msg("version pre-check against nonexistent page; proceeding")
		return nil
	}
	if err != nil {
		return err
	}
	if meta.Version != *expected {
		return ErrStaleVersion
	}
	return nil
}

// Publish validates, renders and publishes one legal page.
//
// Order matters: everything local-and-cheap fails first (plan gate, size cap,
// schema validation), then the version pre-check, and only then the remote
// create/update. The closing local write re-checks the version atomically, so
// even the remaining race window between remote call and local write cannot
// produce a lost update.
func (s *PageService) Publish(ctx context.Context, in PublishInput) (*PublishResult, validation.FieldErrors, error) {
	tr := otel.Tracer("services/PageService")
	ctx, span := tr.Start(ctx, "Publish",
		trace.WithAttributes(
			attribute.String("store.id", in.StoreID),
			attribute.String("page.type", in.PageType),
		),
	)
	defer span.End()

	cfg, err := s.config(in.PageType)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkForm(in.FormJSON); err != nil {
		return nil, nil, err
	}

	if s.Plans != nil && cfg.RequiredPlan != "" && cfg.RequiredPlan != "free" {
		ok, err := s.Plans.HasAccess(ctx, in.ShopDomain, cfg.RequiredPlan)
		if err != nil || !ok {
			return nil, nil, ErrPlanRequired
		}
	}

	// Replay a previously completed publish instead of re-running side
	// effects.
	if in.IdempotencyKey != "" {
		rec, err := repo.GetIdempotency(ctx, s.DB, in.StoreID, in.PageType, in.IdempotencyKey, time.Now().UTC())
		if err == nil {
			meta, merr := repo.GetLegalPageMeta(ctx, s.DB, in.StoreID, in.PageType)
			res := &PublishResult{ShopifyPageID: rec.ShopifyPageID, Replayed: true}
			if merr == nil {
				res.NewVersion = meta.Version
			}
			return res, nil, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, nil, err
		}
	}

	form, ferrs, err := cfg.Validate([]byte(in.FormJSON))
	if err != nil {
		return nil, nil, err
	}
	if len(ferrs) > 0 {
		return nil, ferrs, nil
	}

	contentHTML := cfg.GenerateHTML(cfg.NormalizeForm(form))

	// Pre-check the optimistic lock BEFORE calling Shopify: a stale client
	// must not create or mutate remote pages.
	if err := s.CheckVersion(ctx, in.StoreID, in.PageType, in.ExpectedVersion); err != nil {
		return nil, nil, err
	}

	meta, err := repo.GetLegalPageMeta(ctx, s.DB, in.StoreID, in.PageType)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, nil, err
	}

	pageID, handle, err := s.syncRemote(ctx, cfg, meta, contentHTML)
	if err != nil {
		return nil, nil, err
	}

	sealed, err := s.Codec.Encrypt(in.FormJSON)
	if err != nil {
		return nil, nil, err
	}

	fields := map[string]any{
		"status":              domain.StatusPublished,
		"shopify_page_id":     &pageID,
		"content_html":        &contentHTML,
		"form_data":           &sealed,
		"form_schema_version": cfg.CurrentVersion(),
	}

	newVersion := 0
	switch {
	case meta != nil:
		if in.ExpectedVersion != nil {
			err = repo.UpdateLegalPageGuarded(ctx, s.DB, meta.ID, *in.ExpectedVersion, fields)
		} else {
			err = repo.UpdateLegalPage(ctx, s.DB, meta.ID, fields)
		}
		if errors.Is(err, repo.ErrStaleVersion) {
			return nil, nil, ErrStaleVersion
		}
		if err != nil {
			return nil, nil, err
		}
		fresh, err := repo.GetLegalPageMeta(ctx, s.DB, in.StoreID, in.PageType)
		if err != nil {
			return nil, nil, err
		}
		newVersion = fresh.Version
	default:
		page, err := repo.CreateLegalPage(ctx, s.DB, &domain.LegalPage{
			StoreID:           in.StoreID,
			PageType:          in.PageType,
			Status:            domain.StatusPublished,
			FormData:          &sealed,
			ContentHTML:       &contentHTML,
			ShopifyPageID:     &pageID,
			FormSchemaVersion: cfg.CurrentVersion(),
		})
		if err != nil {
			return nil, nil, err
		}
		newVersion = page.Version
	}

	if in.IdempotencyKey != "" {
		if _, err := repo.CreateIdempotency(ctx, s.DB, in.StoreID, in.PageType, in.IdempotencyKey, pageID, 200, s.idempotencyTTL()); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			log.Ctx(ctx).Warn().Err(err).Msg("recording idempotency result failed")
		}
	}

	return &PublishResult{ShopifyPageID: pageID, PageHandle: handle, NewVersion: newVersion}, nil, nil
}

// syncRemote decides between create, update, and recreate. An existing local
// reference is trusted only after the remote page is confirmed alive; a
// vanished remote page means recreate, never update.
func (s *PageService) syncRemote(ctx context.Context, cfg *registry.Config, meta *domain.LegalPageMeta, contentHTML string) (pageID, handle string, err error) {
	if meta != nil && meta.ShopifyPageID != nil {
		remote, err := s.Pages.GetPage(ctx, *meta.ShopifyPageID)
		if err != nil {
			return "", "", err
		}
		if remote != nil {
			if err := s.Pages.UpdatePage(ctx, *meta.ShopifyPageID, shopify.UpdatePageInput{
				BodyHTML: &contentHTML,
			}); err != nil {
				return "", "", err
			}
			return *meta.ShopifyPageID, remote.Handle, nil
		}
		log.Ctx(ctx).Info().
			Str("shopify_page_id", *meta.ShopifyPageID).
			Msg("remote page deleted; recreating")
	}

	res, err := s.Pages.CreatePage(ctx, shopify.CreatePageInput{
		Title:     cfg.ShopifyPageTitle,
		Handle:    cfg.Handle,
		BodyHTML:  contentHTML,
		Published: false,
	})
	if err != nil {
		return "", "", err
	}
	return res.PageID, res.Handle, nil
}

// GetPage returns the decrypted record plus its template-version standing.
// Undecryptable form data yields ErrCorruptFormData; the caller redirects the
// merchant to the wizard rather than surfacing an internal failure.
func (s *PageService) GetPage(ctx context.Context, storeID, pageType string) (*PageData, error) {
	cfg, err := s.config(pageType)
	if err != nil {
		return nil, err
	}

	page, err := repo.GetLegalPage(ctx, s.DB, storeID, pageType)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}

	formJSON := ""
	if page.FormData != nil {
		formJSON, err = s.Codec.Decrypt(*page.FormData)
		if err != nil {
			return nil, ErrCorruptFormData
		}
	}

	return &PageData{
		Meta: domain.LegalPageMeta{
			ID:                page.ID,
			Version:           page.Version,
			Status:            page.Status,
			ShopifyPageID:     page.ShopifyPageID,
			FormSchemaVersion: page.FormSchemaVersion,
			UpdatedAt:         page.UpdatedAt,
		},
		FormJSON:     formJSON,
		NeedsUpdate:  cfg.NeedsUpdate(page.FormSchemaVersion),
		ChangesSince: cfg.ChangesSince(page.FormSchemaVersion),
	}, nil
}

// GetPageMeta returns the non-sensitive projection, or ErrPageNotFound.
func (s *PageService) GetPageMeta(ctx context.Context, storeID, pageType string) (*domain.LegalPageMeta, error) {
	if _, err := s.config(pageType); err != nil {
		return nil, err
	}
	meta, err := repo.GetLegalPageMeta(ctx, s.DB, storeID, pageType)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPageNotFound
	}
	return meta, err
}

// ListPages returns one summary per registered page type, in catalog order,
// whether or not the store has a record for it yet.
func (s *PageService) ListPages(ctx context.Context, storeID string) ([]PageSummary, error) {
	pages, err := repo.ListLegalPages(ctx, s.DB, storeID)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]*domain.LegalPage, len(pages))
	for i := range pages {
		byType[pages[i].PageType] = &pages[i]
	}

	var out []PageSummary
	for _, cfg := range s.Catalog.All() {
		sum := PageSummary{
			PageType:    cfg.Type,
			Title:       cfg.Title,
			Description: cfg.Description,
		}
		if page, ok := byType[cfg.Type]; ok {
			status := page.Status
			updated := page.UpdatedAt
			sum.Status = &status
			sum.ShopifyPageID = page.ShopifyPageID
			sum.UpdatedAt = &updated
			sum.NeedsUpdate = cfg.NeedsUpdate(page.FormSchemaVersion)
		}
		out = append(out, sum)
	}
	return out, nil
}

// ReconcileRemotePages sweeps the store's published pages and marks the ones
// whose remote counterpart disappeared. Remote lookup failures are logged and
// skipped: reconciliation is advisory and must not take the dashboard down.
// It returns the number of pages newly marked deleted.
func (s *PageService) ReconcileRemotePages(ctx context.Context, storeID string) (int, error) {
	tr := otel.Tracer("services/PageService")
	ctx, span := tr.Start(ctx, "ReconcileRemotePages",
		trace.WithAttributes(attribute.String("store.id", storeID)),
	)
	defer span.End()

	pages, err := repo.ListLegalPages(ctx, s.DB, storeID)
	if err != nil {
		return 0, err
	}

	marked := 0
	for i := range pages {
		page := &pages[i]
		if page.Status != domain.StatusPublished || page.ShopifyPageID == nil {
			continue
		}
		remote, err := s.Pages.GetPage(ctx, *page.ShopifyPageID)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).
				Str("page_type", page.PageType).
				Msg("remote page lookup failed during reconciliation")
			continue
		}
		if remote != nil {
			continue
		}
		if err := repo.MarkDeletedOnShopify(ctx, s.DB, page.ID); err != nil {
			log.Ctx(ctx).Error().Err(err).
				Str("page_type", page.PageType).
				Msg("marking page deleted failed")
			continue
		}
		marked++
	}
	return marked, nil
}
