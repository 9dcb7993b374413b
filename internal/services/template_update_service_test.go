package services

import (
	"context"
	"errors"
	"testing"

	"github.com/marutto-legal/go-legal-pages/internal/domain"
	"github.com/marutto-legal/go-legal-pages/internal/registry"
	"github.com/marutto-legal/go-legal-pages/internal/repo"
)

func newUpdateService(t *testing.T) (*TemplateUpdateService, *PageService, *fakePages, *domain.Store) {
	t.Helper()
	svc, pages, store := newPageService(t)
	upd := &TemplateUpdateService{
		DB:      svc.DB,
		Codec:   svc.Codec,
		Catalog: svc.Catalog,
		Pages:   svc.Pages,
	}
	return upd, svc, pages, store
}

// bumpTemplate raises the catalog's tokushoho template revision so published
// pages fall behind.
func bumpTemplate(t *testing.T, cat *registry.Catalog) {
	t.Helper()
	cfg, ok := cat.Get("tokushoho")
	if !ok {
		t.Fatal("tokushoho not registered")
	}
	cfg.TemplateVersion = 2
	cfg.VersionHistory = append(cfg.VersionHistory, registry.VersionEntry{
		Version: 2, Date: "2026-08-01", Summary: "文言を更新",
	})
	t.Cleanup(func() {
		cfg.TemplateVersion = 1
		cfg.VersionHistory = cfg.VersionHistory[:1]
	})
}

func TestTemplateUpdateApply(t *testing.T) {
	upd, svc, pages, store := newUpdateService(t)
	ctx := context.Background()

	if _, _, err := svc.Publish(ctx, PublishInput{
		StoreID:  store.ID,
		PageType: "tokushoho",
		FormJSON: validTokushohoJSON(),
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	bumpTemplate(t, svc.Catalog)

	res, err := upd.Apply(ctx, store.ID, "tokushoho")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.Success || res.NewSchemaVersion != 2 {
		t.Fatalf("result = %+v", res)
	}
	if pages.updates != 1 {
		t.Errorf("remote updates = %d, want 1", pages.updates)
	}

	page, err := repo.GetLegalPage(ctx, svc.DB, store.ID, "tokushoho")
	if err != nil {
		t.Fatalf("GetLegalPage: %v", err)
	}
	if page.FormSchemaVersion != 2 {
		t.Errorf("schema version = %d, want 2", page.FormSchemaVersion)
	}
	if page.Version != 2 {
		t.Errorf("version = %d, want 2 (update bumps the lock)", page.Version)
	}
}

func TestTemplateUpdateRecreatesDeletedRemote(t *testing.T) {
	upd, svc, pages, store := newUpdateService(t)
	ctx := context.Background()

	res, _, err := svc.Publish(ctx, PublishInput{
		StoreID:  store.ID,
		PageType: "tokushoho",
		FormJSON: validTokushohoJSON(),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	bumpTemplate(t, svc.Catalog)
	pages.deleteRemote(res.ShopifyPageID)

	out, err := upd.Apply(ctx, store.ID, "tokushoho")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !out.Success {
		t.Fatalf("result = %+v", out)
	}
	if pages.creates != 2 || pages.updates != 0 {
		t.Errorf("creates = %d, updates = %d", pages.creates, pages.updates)
	}

	page, err := repo.GetLegalPage(ctx, svc.DB, store.ID, "tokushoho")
	if err != nil {
		t.Fatalf("GetLegalPage: %v", err)
	}
	if page.ShopifyPageID == nil || *page.ShopifyPageID == res.ShopifyPageID {
		t.Error("expected a fresh remote reference")
	}
}

func TestTemplateUpdateCorruptDataRedirects(t *testing.T) {
	upd, svc, _, store := newUpdateService(t)
	ctx := context.Background()

	if _, err := svc.SaveDraft(ctx, store.ID, "tokushoho", `{"a":1}`, nil); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	page, err := repo.GetLegalPage(ctx, svc.DB, store.ID, "tokushoho")
	if err != nil {
		t.Fatalf("GetLegalPage: %v", err)
	}
	corrupt := "v1:00:ff00:broken"
	if err := repo.UpdateLegalPage(ctx, svc.DB, page.ID, map[string]any{"form_data": &corrupt}); err != nil {
		t.Fatalf("corrupting record: %v", err)
	}

	res, err := upd.Apply(ctx, store.ID, "tokushoho")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Success {
		t.Fatal("corrupt data must not update successfully")
	}
	if res.RedirectTo != "/wizard/tokushoho" {
		t.Errorf("redirect = %q", res.RedirectTo)
	}
}

func TestTemplateUpdateInvalidStoredFormRedirects(t *testing.T) {
	upd, svc, _, store := newUpdateService(t)
	ctx := context.Background()

	// A partial draft decrypts fine but no longer passes full validation.
	if _, err := svc.SaveDraft(ctx, store.ID, "tokushoho", `{"businessName":"株式会社マルット"}`, nil); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	res, err := upd.Apply(ctx, store.ID, "tokushoho")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Success || res.RedirectTo != "/wizard/tokushoho" {
		t.Fatalf("result = %+v", res)
	}
}

func TestTemplateUpdateUnknownPage(t *testing.T) {
	upd, _, _, store := newUpdateService(t)

	if _, err := upd.Apply(context.Background(), store.ID, "unknown"); !errors.Is(err, ErrInvalidPageType) {
		t.Errorf("unknown type: err = %v", err)
	}
	if _, err := upd.Apply(context.Background(), store.ID, "tokushoho"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("missing record: err = %v", err)
	}
}

func TestPendingUpdates(t *testing.T) {
	upd, svc, _, store := newUpdateService(t)
	ctx := context.Background()

	if _, _, err := svc.Publish(ctx, PublishInput{
		StoreID:  store.ID,
		PageType: "tokushoho",
		FormJSON: validTokushohoJSON(),
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	pending, err := upd.PendingUpdates(ctx, store.ID)
	if err != nil {
		t.Fatalf("PendingUpdates: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("up-to-date page listed as pending: %+v", pending)
	}

	bumpTemplate(t, svc.Catalog)
	pending, err = upd.PendingUpdates(ctx, store.ID)
	if err != nil {
		t.Fatalf("PendingUpdates: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	p := pending[0]
	if p.PageType != "tokushoho" || p.StoredVersion != 1 || p.CurrentVersion != 2 {
		t.Errorf("pending entry = %+v", p)
	}
	if len(p.Changes) != 1 || p.Changes[0].Version != 2 {
		t.Errorf("changes = %+v", p.Changes)
	}
}

func TestApplyAll(t *testing.T) {
	upd, svc, _, store := newUpdateService(t)
	ctx := context.Background()

	if _, _, err := svc.Publish(ctx, PublishInput{
		StoreID:  store.ID,
		PageType: "tokushoho",
		FormJSON: validTokushohoJSON(),
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	bumpTemplate(t, svc.Catalog)

	results, err := upd.ApplyAll(ctx, store.ID)
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if len(results) != 1 || !results[0].Success {
		t.Fatalf("results = %+v", results)
	}

	// Second sweep is a no-op: everything is current.
	results, err = upd.ApplyAll(ctx, store.ID)
	if err != nil {
		t.Fatalf("second ApplyAll: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("results = %+v, want none", results)
	}
}
