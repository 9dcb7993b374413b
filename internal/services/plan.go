package services

import "context"

// PlanChecker answers whether a store's billing plan grants access to a
// plan-gated page type. The HTTP layer wires the Shopify billing check in;
// tests and single-plan deployments use AllowAllPlans.
type PlanChecker interface {
	// HasAccess reports whether the store may use features gated behind
	// requiredPlan. An empty or "free" requiredPlan is always accessible.
	HasAccess(ctx context.Context, shopDomain, requiredPlan string) (bool, error)
}

// AllowAllPlans grants every plan check. Billing failures deny by returning
// false from a real checker, never by erroring the calling operation.
type AllowAllPlans struct{}

// HasAccess implements PlanChecker.
func (AllowAllPlans) HasAccess(context.Context, string, string) (bool, error) {
	return true, nil
}
