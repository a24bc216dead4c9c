package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esanspool/internal/domain/entity"
	domainerrors "esanspool/internal/domain/errors"
	"esanspool/internal/domain/service"
)

func TestAuthorize_AdminActions(t *testing.T) {
	authz := NewAuthorizer()
	admin := service.Actor{UserID: "admin-1", Role: entity.RoleAdmin}
	user := service.Actor{UserID: "user-1", Role: entity.RoleUser}

	for _, action := range []service.Action{
		service.ActionManageCatalog,
		service.ActionManageUsers,
		service.ActionViewReports,
	} {
		assert.NoError(t, authz.Authorize(admin, action, ""), string(action))
		assert.ErrorIs(t, authz.Authorize(user, action, ""), domainerrors.ErrForbidden, string(action))
	}
}

func TestAuthorize_DemandOwnership(t *testing.T) {
	authz := NewAuthorizer()
	owner := service.Actor{UserID: "user-1", Role: entity.RoleUser}
	other := service.Actor{UserID: "user-2", Role: entity.RoleUser}
	admin := service.Actor{UserID: "admin-1", Role: entity.RoleAdmin}

	require.NoError(t, authz.Authorize(owner, service.ActionCancelDemand, "user-1"))
	require.NoError(t, authz.Authorize(admin, service.ActionCancelDemand, "user-1"))
	assert.ErrorIs(t, authz.Authorize(other, service.ActionCancelDemand, "user-1"), domainerrors.ErrForbidden)

	require.NoError(t, authz.Authorize(owner, service.ActionListDemands, "user-1"))
	assert.ErrorIs(t, authz.Authorize(other, service.ActionListDemands, "user-1"), domainerrors.ErrForbidden)
}

func TestAuthorize_AnonymousRejected(t *testing.T) {
	authz := NewAuthorizer()
	anon := service.Actor{}

	assert.ErrorIs(t, authz.Authorize(anon, service.ActionCreateDemand, ""), domainerrors.ErrForbidden)
	assert.ErrorIs(t, authz.Authorize(anon, service.ActionManageCatalog, ""), domainerrors.ErrForbidden)
}

func TestAuthorize_CreateDemandAnyRole(t *testing.T) {
	authz := NewAuthorizer()

	assert.NoError(t, authz.Authorize(service.Actor{UserID: "u", Role: entity.RoleUser}, service.ActionCreateDemand, ""))
	assert.NoError(t, authz.Authorize(service.Actor{UserID: "a", Role: entity.RoleAdmin}, service.ActionCreateDemand, ""))
}
