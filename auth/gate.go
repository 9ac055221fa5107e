package auth

import (
	"github.com/connectingdots/blog-backend/errs"
	"github.com/connectingdots/blog-backend/models"
)

// ProtectedUsername is the distinguished bootstrap account: it can never
// be deleted and its username can never be changed, regardless of who
// asks.
const ProtectedUsername = "admin"

// adminRoles is the role set required by the user-management endpoints.
var adminRoles = []models.Role{models.RoleAdmin, models.RoleSuperAdmin}

// RequireRole allows the actor through when its role (compared
// case-insensitively) is in the required set. The denial echoes both the
// required set and the actor's actual role for debuggability.
func RequireRole(actor *Claims, required ...models.Role) error {
	actorRole := models.NormalizeRole(string(actor.Role))
	for _, r := range required {
		if actorRole == r {
			return nil
		}
	}
	return errs.NewInsufficientRoleError(rolesToStrings(required), string(actor.Role))
}

// RequireAdmin gates the user list/get/update/delete operations.
func RequireAdmin(actor *Claims) error {
	return RequireRole(actor, adminRoles...)
}

// CheckUserUpdate applies the protected-account and promotion rules for
// an admin updating the target user. newUsername and newRole are the
// requested values, empty when the field is not part of the patch.
func CheckUserUpdate(actor *Claims, target models.User, newUsername string, newRole string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if target.Username == ProtectedUsername && newUsername != "" && newUsername != ProtectedUsername {
		return errs.NewForbiddenError("cannot change main admin username")
	}
	if models.NormalizeRole(newRole) == models.RoleSuperAdmin && models.NormalizeRole(string(actor.Role)) != models.RoleSuperAdmin {
		return errs.NewForbiddenError("only superadmin can promote users to superadmin role")
	}
	return nil
}

// CheckUserDelete applies the protected-account, self-deletion and
// superadmin-deletion rules for an admin deleting the target user.
func CheckUserDelete(actor *Claims, target models.User) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if target.Username == ProtectedUsername {
		return errs.NewForbiddenError("cannot delete the main admin user")
	}
	if target.ID == actor.UserID {
		return errs.NewForbiddenError("cannot delete yourself")
	}
	if models.NormalizeRole(string(target.Role)) == models.RoleSuperAdmin && models.NormalizeRole(string(actor.Role)) != models.RoleSuperAdmin {
		return errs.NewForbiddenError("only superadmin can delete other superadmins")
	}
	return nil
}

func rolesToStrings(roles []models.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
