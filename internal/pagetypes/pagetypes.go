// Package pagetypes wires the concrete legal page types into a registry
// catalog. Adding a page type means adding one config here; nothing else in
// the application enumerates types.
package pagetypes

import (
	"github.com/marutto-legal/go-legal-pages/internal/registry"
	"github.com/marutto-legal/go-legal-pages/internal/templates"
	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

// Page type identifiers.
const (
	Tokushoho = "tokushoho"
	Privacy   = "privacy"
	Terms     = "terms"
	Return    = "return"
)

// RegisterAll registers every built-in page type on cat.
func RegisterAll(cat *registry.Catalog) error {
	for _, cfg := range []*registry.Config{
		tokushohoConfig(),
		privacyConfig(),
		termsConfig(),
		returnConfig(),
	} {
		if err := cat.Register(cfg); err != nil {
			return err
		}
	}
	return nil
}

func tokushohoConfig() *registry.Config {
	return &registry.Config{
		Type:             Tokushoho,
		Title:            "特商法ページ作成",
		Description:      "ECサイトに必須の法的表記ページ",
		ShopifyPageTitle: "特定商取引法に基づく表記",
		Handle:           "legal",
		Steps: []registry.StepDefinition{
			{Label: "Step 1", Description: "事業者情報"},
			{Label: "Step 2", Description: "販売条件"},
			{Label: "Step 3", Description: "プレビュー & 公開"},
		},
		RequiredPlan:    "free",
		TemplateVersion: 1,
		VersionHistory: []registry.VersionEntry{
			{Version: 1, Date: "2026-02-27", Summary: "初期バージョン"},
		},
		Validate: func(raw []byte) (any, validation.FieldErrors, error) {
			form, ferrs, err := validation.ValidateTokushoho(raw)
			if form == nil {
				return nil, ferrs, err
			}
			return form, ferrs, err
		},
		ValidateStep: validation.ValidateTokushohoStep,
		Normalize: func(form any) any {
			return validation.NormalizeTokushoho(form.(*validation.TokushohoForm))
		},
		GenerateHTML: func(form any) string {
			return templates.Tokushoho(form.(*validation.TokushohoForm))
		},
	}
}

func privacyConfig() *registry.Config {
	return &registry.Config{
		Type:             Privacy,
		Title:            "プライバシーポリシー作成",
		Description:      "個人情報の取り扱いに関するポリシーページ",
		ShopifyPageTitle: "プライバシーポリシー",
		Handle:           "privacy-policy",
		Steps: []registry.StepDefinition{
			{Label: "Step 1", Description: "基本情報"},
			{Label: "Step 2", Description: "収集・利用情報"},
			{Label: "Step 3", Description: "プレビュー & 公開"},
		},
		RequiredPlan:    "basic",
		TemplateVersion: 1,
		VersionHistory: []registry.VersionEntry{
			{Version: 1, Date: "2026-02-27", Summary: "初期バージョン"},
		},
		Validate: func(raw []byte) (any, validation.FieldErrors, error) {
			form, ferrs, err := validation.ValidatePrivacy(raw)
			if form == nil {
				return nil, ferrs, err
			}
			return form, ferrs, err
		},
		ValidateStep: validation.ValidatePrivacyStep,
		GenerateHTML: func(form any) string {
			return templates.Privacy(form.(*validation.PrivacyForm))
		},
	}
}

func termsConfig() *registry.Config {
	return &registry.Config{
		Type:             Terms,
		Title:            "利用規約作成",
		Description:      "サービスの利用条件を定める規約ページ",
		ShopifyPageTitle: "利用規約",
		Handle:           "terms-of-service",
		Steps: []registry.StepDefinition{
			{Label: "Step 1", Description: "基本情報"},
			{Label: "Step 2", Description: "規約内容"},
			{Label: "Step 3", Description: "プレビュー & 公開"},
		},
		RequiredPlan:    "basic",
		TemplateVersion: 1,
		VersionHistory: []registry.VersionEntry{
			{Version: 1, Date: "2026-02-27", Summary: "初期バージョン"},
		},
		Validate: func(raw []byte) (any, validation.FieldErrors, error) {
			form, ferrs, err := validation.ValidateTerms(raw)
			if form == nil {
				return nil, ferrs, err
			}
			return form, ferrs, err
		},
		ValidateStep: validation.ValidateTermsStep,
		GenerateHTML: func(form any) string {
			return templates.Terms(form.(*validation.TermsForm))
		},
	}
}

func returnConfig() *registry.Config {
	return &registry.Config{
		Type:             Return,
		Title:            "返品・交換ポリシー作成",
		Description:      "返品・交換に関するポリシーページ",
		ShopifyPageTitle: "返品・交換ポリシー",
		Handle:           "return-policy",
		Steps: []registry.StepDefinition{
			{Label: "Step 1", Description: "基本情報"},
			{Label: "Step 2", Description: "返品条件"},
			{Label: "Step 3", Description: "プレビュー & 公開"},
		},
		RequiredPlan:    "basic",
		TemplateVersion: 1,
		VersionHistory: []registry.VersionEntry{
			{Version: 1, Date: "2026-02-27", Summary: "初期バージョン"},
		},
		Validate: func(raw []byte) (any, validation.FieldErrors, error) {
			form, ferrs, err := validation.ValidateReturn(raw)
			if form == nil {
				return nil, ferrs, err
			}
			return form, ferrs, err
		},
		ValidateStep: validation.ValidateReturnStep,
		GenerateHTML: func(form any) string {
			return templates.ReturnPolicy(form.(*validation.ReturnForm))
		},
	}
}
