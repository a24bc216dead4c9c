// Package policy provides the role-based Authorizer implementation. Every
// mutating usecase consults it server-side; route guards are only a
// convenience on top.
package policy

import (
	"esanspool/internal/domain/entity"
	domainerrors "esanspool/internal/domain/errors"
	"esanspool/internal/domain/service"
)

type roleAuthorizer struct{}

// NewAuthorizer is the constructor for the role-based Authorizer.
func NewAuthorizer() service.Authorizer {
	return &roleAuthorizer{}
}

// Authorize returns nil when the actor may perform the action.
func (a *roleAuthorizer) Authorize(actor service.Actor, action service.Action, resourceOwnerID string) error {
	if actor.UserID == "" || !actor.Role.IsValid() {
		return domainerrors.ErrForbidden
	}

	switch action {
	case service.ActionManageCatalog, service.ActionManageUsers, service.ActionViewReports:
		if actor.Role == entity.RoleAdmin {
			return nil
		}
	case service.ActionCreateDemand:
		// Any authenticated account may pool a demand.
		return nil
	case service.ActionCancelDemand, service.ActionListDemands:
		if actor.Role == entity.RoleAdmin || actor.UserID == resourceOwnerID {
			return nil
		}
	}

	return domainerrors.ErrForbidden
}
