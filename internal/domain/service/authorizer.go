package service

import "esanspool/internal/domain/entity"

// Action names a capability a caller may or may not hold.
type Action string

const (
	// ActionManageCatalog covers creating, editing and deleting essences.
	ActionManageCatalog Action = "catalog:manage"
	// ActionManageUsers covers listing, editing and deleting user accounts.
	ActionManageUsers Action = "users:manage"
	// ActionViewReports covers the confirmed-purchase report.
	ActionViewReports Action = "reports:view"
	// ActionCreateDemand covers creating a demand.
	ActionCreateDemand Action = "demand:create"
	// ActionCancelDemand covers cancelling a demand; the resource owner id is
	// the demand's user id.
	ActionCancelDemand Action = "demand:cancel"
	// ActionListDemands covers reading a user's demand history; the resource
	// owner id is that user's id.
	ActionListDemands Action = "demand:list"
)

// Actor is the authenticated identity every mutating operation receives.
type Actor struct {
	UserID string
	Role   entity.Role
}

// Authorizer decides whether an actor may perform an action. Policy is
// evaluated server-side on every mutating usecase, not only in routing
// guards. resourceOwnerID is empty for non-owned resources.
type Authorizer interface {
	// Authorize returns nil when the actor may perform the action, or a
	// domain error describing the refusal.
	Authorize(actor Actor, action Action, resourceOwnerID string) error
}
