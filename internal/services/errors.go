// Package services implements the business logic for legal page persistence,
// publishing, template upgrades, and checkout confirmation settings.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

var (
	// ErrInvalidPageType indicates that the requested page type is not
	// registered in the catalog.
	ErrInvalidPageType = errors.New("invalid page type")

	// ErrPageNotFound indicates that no legal page record exists for the
	// requested (store, page type) pair.
	ErrPageNotFound = errors.New("legal page not found")

	// ErrStaleVersion is returned when an optimistic-concurrency check
	// fails: the record changed since the caller last read it.
	ErrStaleVersion = errors.New("このページは別のセッションで更新されています。再読み込みしてください。")

	// ErrFormTooLarge is returned when a form payload exceeds the size cap.
	ErrFormTooLarge = errors.New("form data too large")

	// ErrEmptyForm is returned when a save or publish carries no form data.
	ErrEmptyForm = errors.New("form data is required")

	// ErrCorruptFormData indicates stored form data that cannot be
	// decrypted or parsed. The record is recoverable through the wizard;
	// the condition never aborts batch operations.
	ErrCorruptFormData = errors.New("stored form data is corrupt")

	// ErrPlanRequired indicates the page type is gated behind a billing
	// plan the store does not have.
	ErrPlanRequired = errors.New("このページタイプのご利用にはプランのアップグレードが必要です")
)
