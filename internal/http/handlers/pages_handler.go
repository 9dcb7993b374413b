// Legal page HTTP handlers.
//
// This file exposes the merchant-admin REST endpoints for legal pages:
//   - GET  /pages                          (dashboard listing)
//   - GET  /pages/{pageType}               (wizard load, decrypted form data)
//   - PUT  /pages/{pageType}/draft         (autosave)
//   - POST /pages/{pageType}/validate      (per-step validation)
//   - POST /pages/{pageType}/publish       (render + push to Shopify)
//   - POST /pages/{pageType}/template-update
//   - POST /pages/{pageType}/menu-link     (storefront nav link)
//
// Handlers are transport-thin: they parse and shape payloads, delegate to
// application services, and translate service errors into the HTTP taxonomy
// (field errors → 400, lock conflicts → 409, Shopify failures → 502).
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marutto-legal/go-legal-pages/internal/domain"
	"github.com/marutto-legal/go-legal-pages/internal/http/middleware"
	"github.com/marutto-legal/go-legal-pages/internal/registry"
	"github.com/marutto-legal/go-legal-pages/internal/services"
	"github.com/marutto-legal/go-legal-pages/internal/shopify"
	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

//
// Service contracts (context-aware)
//

// PageService defines legal page lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PageService interface {
	// SaveDraft stores a (possibly partial) wizard form without validation.
	SaveDraft(ctx context.Context, storeID, pageType, formJSON string, expectedVersion *int) (*domain.LegalPageMeta, error)
	// Publish validates, renders, and pushes a page to Shopify.
	Publish(ctx context.Context, in services.PublishInput) (*services.PublishResult, validation.FieldErrors, error)
	// GetPage returns the decrypted record for the wizard.
	GetPage(ctx context.Context, storeID, pageType string) (*services.PageData, error)
	// ListPages returns one dashboard summary per registered page type.
	ListPages(ctx context.Context, storeID string) ([]services.PageSummary, error)
	// ReconcileRemotePages marks pages whose Shopify counterpart vanished.
	ReconcileRemotePages(ctx context.Context, storeID string) (int, error)
}

// TemplateUpdateService defines template-revision operations.
type TemplateUpdateService interface {
	// Apply re-renders one page against the current template.
	Apply(ctx context.Context, storeID, pageType string) (*services.UpdateResult, error)
	// PendingUpdates lists pages whose template is behind.
	PendingUpdates(ctx context.Context, storeID string) ([]services.PendingUpdate, error)
}

// MenuAPI is the navigation slice of the Shopify admin client.
type MenuAPI interface {
	GetMenus(ctx context.Context) ([]shopify.Menu, error)
	AddPageToMenu(ctx context.Context, menuID, pageTitle, pageURL string) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for legal pages, template updates,
// confirmation settings, and navigation. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	pageSvc PageService
	updSvc  TemplateUpdateService
	confSvc ConfirmationService
	menus   MenuAPI
	catalog *registry.Catalog
}

// New constructs a Handlers instance bound to the given services.
func New(pageSvc PageService, updSvc TemplateUpdateService, confSvc ConfirmationService, menus MenuAPI, catalog *registry.Catalog) *Handlers {
	return &Handlers{pageSvc: pageSvc, updSvc: updSvc, confSvc: confSvc, menus: menus, catalog: catalog}
}

//
// DTOs
//

// SaveDraftRequest is the JSON payload for draft autosave. FormData is kept
// raw: drafts are incomplete by design and are not validated here.
type SaveDraftRequest struct {
	FormData        json.RawMessage `json:"formData"`
	ExpectedVersion *int            `json:"expectedVersion"`
}

// PublishRequest is the JSON payload for publishing a page.
type PublishRequest struct {
	FormData        json.RawMessage `json:"formData"`
	ExpectedVersion *int            `json:"expectedVersion"`
}

// ValidateStepRequest asks for validation of one wizard step.
type ValidateStepRequest struct {
	Step     int             `json:"step" binding:"required,min=1"`
	FormData json.RawMessage `json:"formData"`
}

// ValidateStepResponse reports per-step validation results.
type ValidateStepResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ListPagesResponse is the dashboard payload: summaries plus outstanding
// template updates.
type ListPagesResponse struct {
	Pages          []services.PageSummary   `json:"pages"`
	PendingUpdates []services.PendingUpdate `json:"pending_updates"`
}

// MenuLinkRequest selects the navigation menu to receive the page link.
// An empty MenuID targets the store's main menu.
type MenuLinkRequest struct {
	MenuID string `json:"menuId"`
}

//
// Helpers
//

const shopifyFallbackMsg = "Shopifyページの作成・更新に失敗しました。しばらくしてからもう一度お試しください。"

// failService translates service-layer errors into the HTTP error taxonomy.
func failService(c *gin.Context, err error) {
	var apiErr *shopify.APIError
	switch {
	case errors.Is(err, services.ErrInvalidPageType):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown page type")
	case errors.Is(err, services.ErrPageNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "page not found")
	case errors.Is(err, services.ErrStaleVersion):
		if pt := c.Param("pageType"); pt != "" {
			middleware.ObserveLockConflict(pt)
		}
		fail(c, http.StatusConflict, ErrCodeStaleVersion, services.ErrStaleVersion.Error())
	case errors.Is(err, services.ErrEmptyForm):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "formData required")
	case errors.Is(err, services.ErrFormTooLarge):
		fail(c, http.StatusBadRequest, ErrCodeFormTooLarge, "form data too large")
	case errors.Is(err, services.ErrCorruptFormData):
		fail(c, http.StatusUnprocessableEntity, ErrCodeCorruptFormData, services.ErrCorruptFormData.Error())
	case errors.Is(err, services.ErrPlanRequired):
		fail(c, http.StatusForbidden, ErrCodePlanRequired, services.ErrPlanRequired.Error())
	case errors.Is(err, validation.ErrMalformedJSON):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid form data")
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = shopifyFallbackMsg
		}
		fail(c, http.StatusBadGateway, ErrCodeShopifyAPI, msg)
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// rawForm returns the form payload as a compact string, "" when absent.
func rawForm(raw json.RawMessage) string {
	return strings.TrimSpace(string(raw))
}

// publishOutcome maps a publish error to its metric outcome label.
func publishOutcome(err error) string {
	var apiErr *shopify.APIError
	switch {
	case errors.Is(err, services.ErrStaleVersion):
		return "conflict"
	case errors.As(err, &apiErr):
		return "upstream"
	default:
		return "error"
	}
}

//
// Handlers
//

// ListPages returns the dashboard listing. Remote-deletion reconciliation
// runs first so the listing reflects pages removed in the Shopify admin;
// reconciliation failures are swallowed (the listing must stay available).
func (h *Handlers) ListPages(c *gin.Context) {
	ctx := c.Request.Context()
	storeID := middleware.StoreIDFrom(c)

	if _, err := h.pageSvc.ReconcileRemotePages(ctx, storeID); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("remote reconciliation failed")
	}

	pages, err := h.pageSvc.ListPages(ctx, storeID)
	if err != nil {
		failService(c, err)
		return
	}
	pending, err := h.updSvc.PendingUpdates(ctx, storeID)
	if err != nil {
		failService(c, err)
		return
	}
	if pending == nil {
		pending = []services.PendingUpdate{}
	}
	ok(c, http.StatusOK, ListPagesResponse{Pages: pages, PendingUpdates: pending})
}

// GetPage returns the decrypted form data and version token for the wizard.
func (h *Handlers) GetPage(c *gin.Context) {
	data, err := h.pageSvc.GetPage(c.Request.Context(), middleware.StoreIDFrom(c), c.Param("pageType"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, data)
}

// SaveDraft stores the wizard's current state. Partial forms are accepted;
// validation happens at publish time.
func (h *Handlers) SaveDraft(c *gin.Context) {
	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid form data")
		return
	}

	meta, err := h.pageSvc.SaveDraft(c.Request.Context(), middleware.StoreIDFrom(c), c.Param("pageType"), rawForm(req.FormData), req.ExpectedVersion)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, meta)
}

// ValidateStep validates one wizard step without persisting anything.
func (h *Handlers) ValidateStep(c *gin.Context) {
	cfg, found := h.catalog.Get(c.Param("pageType"))
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown page type")
		return
	}

	var req ValidateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "step and formData required")
		return
	}
	if cfg.ValidateStep == nil {
		ok(c, http.StatusOK, ValidateStepResponse{Valid: true})
		return
	}

	ferrs, err := cfg.ValidateStep(req.Step, req.FormData)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid form data")
		return
	}
	ok(c, http.StatusOK, ValidateStepResponse{Valid: len(ferrs) == 0, Errors: ferrs})
}

// Publish validates and publishes the page, supporting idempotent retries
// via the Idempotency-Key header.
func (h *Handlers) Publish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid form data")
		return
	}

	pageType := c.Param("pageType")
	idemKey, _ := middleware.GetIdempotencyKey(c)
	res, ferrs, err := h.pageSvc.Publish(c.Request.Context(), services.PublishInput{
		StoreID:         middleware.StoreIDFrom(c),
		ShopDomain:      middleware.ShopDomainFrom(c),
		PageType:        pageType,
		FormJSON:        rawForm(req.FormData),
		ExpectedVersion: req.ExpectedVersion,
		IdempotencyKey:  idemKey,
	})
	if err != nil {
		middleware.ObservePublish(pageType, publishOutcome(err))
		failService(c, err)
		return
	}
	if len(ferrs) > 0 {
		middleware.ObservePublish(pageType, "validation")
		failValidation(c, ferrs)
		return
	}
	middleware.ObservePublish(pageType, "ok")
	if res.Replayed {
		c.Header("Idempotency-Replayed", "true")
	}
	ok(c, http.StatusOK, res)
}

// ApplyTemplateUpdate re-renders the page against the current template.
// Unrecoverable stored data yields success=false with a wizard redirect, as
// a 200: the merchant can still act on it.
func (h *Handlers) ApplyTemplateUpdate(c *gin.Context) {
	res, err := h.updSvc.Apply(c.Request.Context(), middleware.StoreIDFrom(c), c.Param("pageType"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// AddMenuLink links the published page into a storefront navigation menu.
// Without an explicit menu ID the store's main menu is targeted. Linking is
// idempotent: an existing link is left alone.
func (h *Handlers) AddMenuLink(c *gin.Context) {
	ctx := c.Request.Context()
	pageType := c.Param("pageType")

	cfg, found := h.catalog.Get(pageType)
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown page type")
		return
	}

	var req MenuLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	menuID := req.MenuID
	if menuID == "" {
		menus, err := h.menus.GetMenus(ctx)
		if err != nil {
			failService(c, err)
			return
		}
		for _, m := range menus {
			if m.Handle == "main-menu" {
				menuID = m.ID
				break
			}
		}
		if menuID == "" && len(menus) > 0 {
			menuID = menus[0].ID
		}
	}
	if menuID == "" {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no navigation menu found")
		return
	}

	if err := h.menus.AddPageToMenu(ctx, menuID, cfg.ShopifyPageTitle, "/pages/"+cfg.Handle); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
