package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectingdots/blog-backend/errs"
	"github.com/connectingdots/blog-backend/models"
)

func claimsFor(role models.Role) *Claims {
	return &Claims{
		UserID:   uuid.New(),
		Username: "actor",
		Role:     role,
	}
}

func targetUser(username string, role models.Role) models.User {
	return models.User{
		ID:       uuid.New(),
		Username: username,
		Role:     role,
	}
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(claimsFor(models.RoleAdmin)))
	assert.NoError(t, RequireAdmin(claimsFor(models.RoleSuperAdmin)))

	err := RequireAdmin(claimsFor(models.RoleUser))
	require.Error(t, err)

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)
	// The denial must echo what was required and what the caller held.
	assert.ElementsMatch(t, []string{"admin", "superadmin"}, apiErr.RequiredRoles)
	assert.Equal(t, "user", apiErr.CurrentRole)
}

func TestRequireAdminCaseInsensitive(t *testing.T) {
	assert.NoError(t, RequireAdmin(claimsFor(models.Role("Admin"))))
	assert.NoError(t, RequireAdmin(claimsFor(models.Role("SUPERADMIN"))))
}

func TestCheckUserUpdateRoleGate(t *testing.T) {
	target := targetUser("bob", models.RoleUser)

	err := CheckUserUpdate(claimsFor(models.RoleUser), target, "", "")
	assert.Error(t, err)

	assert.NoError(t, CheckUserUpdate(claimsFor(models.RoleAdmin), target, "", ""))
}

func TestCheckUserUpdatePromotionToSuperadmin(t *testing.T) {
	target := targetUser("bob", models.RoleUser)

	err := CheckUserUpdate(claimsFor(models.RoleAdmin), target, "", "superadmin")
	require.Error(t, err)
	assert.True(t, errs.IsForbidden(err))

	assert.NoError(t, CheckUserUpdate(claimsFor(models.RoleSuperAdmin), target, "", "superadmin"))
}

func TestCheckUserUpdateProtectedAdminUsername(t *testing.T) {
	target := targetUser(ProtectedUsername, models.RoleSuperAdmin)

	// Username may never change away from "admin", even for superadmin.
	err := CheckUserUpdate(claimsFor(models.RoleSuperAdmin), target, "other", "")
	require.Error(t, err)
	assert.True(t, errs.IsForbidden(err))

	// Re-asserting the same username is fine.
	assert.NoError(t, CheckUserUpdate(claimsFor(models.RoleSuperAdmin), target, ProtectedUsername, ""))
	// So is a patch that does not touch the username.
	assert.NoError(t, CheckUserUpdate(claimsFor(models.RoleSuperAdmin), target, "", ""))
}

func TestCheckUserDeleteRoleGate(t *testing.T) {
	target := targetUser("bob", models.RoleUser)

	err := CheckUserDelete(claimsFor(models.RoleUser), target)
	assert.Error(t, err)

	assert.NoError(t, CheckUserDelete(claimsFor(models.RoleAdmin), target))
}

func TestCheckUserDeleteProtectedAdmin(t *testing.T) {
	target := targetUser(ProtectedUsername, models.RoleAdmin)

	err := CheckUserDelete(claimsFor(models.RoleSuperAdmin), target)
	require.Error(t, err)
	assert.True(t, errs.IsForbidden(err))
}

func TestCheckUserDeleteSelf(t *testing.T) {
	actor := claimsFor(models.RoleSuperAdmin)
	target := targetUser("actor", models.RoleAdmin)
	target.ID = actor.UserID

	err := CheckUserDelete(actor, target)
	require.Error(t, err)
	assert.True(t, errs.IsForbidden(err))
}

func TestCheckUserDeleteSuperadminTarget(t *testing.T) {
	target := targetUser("boss", models.RoleSuperAdmin)

	err := CheckUserDelete(claimsFor(models.RoleAdmin), target)
	require.Error(t, err)
	assert.True(t, errs.IsForbidden(err))

	assert.NoError(t, CheckUserDelete(claimsFor(models.RoleSuperAdmin), target))
}
