// Package registry holds the catalog of legal page types. Page types are
// registered at startup; everything downstream (wizard steps, HTML
// generation, template versioning, remote sync) is driven by the registered
// config rather than by per-type branching.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

// StepDefinition is one wizard step: label shown in the stepper plus a short
// description.
type StepDefinition struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// VersionEntry records one template revision for merchant-facing changelogs.
type VersionEntry struct {
	Version int    `json:"version"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

// ValidateFunc parses and validates a full form payload, returning the typed
// form (as any) on success or per-field errors on failure.
type ValidateFunc func(raw []byte) (any, validation.FieldErrors, error)

// StepValidateFunc validates a single wizard step of a payload.
type StepValidateFunc func(step int, raw []byte) (validation.FieldErrors, error)

// Config describes one legal page type.
type Config struct {
	// Type is the stable identifier ("tokushoho", "privacy", ...).
	Type string
	// Title is shown in the wizard header.
	Title string
	// Description is the short dashboard blurb.
	Description string
	// ShopifyPageTitle is the title of the published Shopify page.
	ShopifyPageTitle string
	// Handle is the Shopify page URL slug.
	Handle string
	// Steps are the wizard steps, preview/publish included.
	Steps []StepDefinition
	// RequiredPlan gates the page type by billing plan ("free" = no gate).
	RequiredPlan string
	// TemplateVersion is the current template revision. Zero means 1.
	TemplateVersion int
	// VersionHistory lists template revisions, oldest first.
	VersionHistory []VersionEntry

	// Validate checks a full form payload.
	Validate ValidateFunc
	// ValidateStep checks one wizard step.
	ValidateStep StepValidateFunc
	// Normalize applies canonical formatting to a validated form. Optional.
	Normalize func(form any) any
	// GenerateHTML renders the storefront page from a validated form.
	GenerateHTML func(form any) string
}

// CurrentVersion returns the effective template version; configs registered
// without an explicit version are version 1.
func (c *Config) CurrentVersion() int {
	if c.TemplateVersion <= 0 {
		return 1
	}
	return c.TemplateVersion
}

// NeedsUpdate reports whether a page generated at storedVersion is behind
// the current template.
func (c *Config) NeedsUpdate(storedVersion int) bool {
	return storedVersion < c.CurrentVersion()
}

// ChangesSince returns the version history entries newer than storedVersion.
func (c *Config) ChangesSince(storedVersion int) []VersionEntry {
	var out []VersionEntry
	for _, e := range c.VersionHistory {
		if e.Version > storedVersion {
			out = append(out, e)
		}
	}
	return out
}

// NormalizeForm applies the config's normalizer when present.
func (c *Config) NormalizeForm(form any) any {
	if c.Normalize == nil {
		return form
	}
	return c.Normalize(form)
}

// Catalog is a concurrency-safe page type registry. Registration happens at
// startup; lookups are lock-cheap reads afterwards.
type Catalog struct {
	mu      sync.RWMutex
	configs map[string]*Config
	order   []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{configs: make(map[string]*Config)}
}

// Register adds a page type. Re-registering an existing type replaces its
// config in place (dev hot-reload); registering an incomplete config is a
// programming error and fails loudly.
func (cat *Catalog) Register(cfg *Config) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("registry: nil config")
	case cfg.Type == "":
		return fmt.Errorf("registry: config without type")
	case cfg.Handle == "":
		return fmt.Errorf("registry: %s: missing handle", cfg.Type)
	case cfg.ShopifyPageTitle == "":
		return fmt.Errorf("registry: %s: missing page title", cfg.Type)
	case cfg.Validate == nil:
		return fmt.Errorf("registry: %s: missing validator", cfg.Type)
	case cfg.GenerateHTML == nil:
		return fmt.Errorf("registry: %s: missing HTML generator", cfg.Type)
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()
	if _, exists := cat.configs[cfg.Type]; !exists {
		cat.order = append(cat.order, cfg.Type)
	}
	cat.configs[cfg.Type] = cfg
	return nil
}

// MustRegister is Register for startup wiring, panicking on error.
func (cat *Catalog) MustRegister(cfg *Config) {
	if err := cat.Register(cfg); err != nil {
		panic(err)
	}
}

// Get returns the config for a page type.
func (cat *Catalog) Get(pageType string) (*Config, bool) {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	cfg, ok := cat.configs[pageType]
	return cfg, ok
}

// All returns every registered config in registration order.
func (cat *Catalog) All() []*Config {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	out := make([]*Config, 0, len(cat.order))
	for _, t := range cat.order {
		out = append(out, cat.configs[t])
	}
	return out
}

// IsValid reports whether pageType is registered.
func (cat *Catalog) IsValid(pageType string) bool {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	_, ok := cat.configs[pageType]
	return ok
}

// PendingUpdates returns the version history entries newer than
// currentVersion, ascending by version. An unknown page type has no pending
// updates rather than being an error.
func (cat *Catalog) PendingUpdates(pageType string, currentVersion int) []VersionEntry {
	cfg, ok := cat.Get(pageType)
	if !ok {
		return nil
	}
	out := cfg.ChangesSince(currentVersion)
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}
