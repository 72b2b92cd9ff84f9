package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskhub/internal/apperr"
	"taskhub/internal/model"
)

// Identity is the authenticated caller resolved from a verified token.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  model.Role
}

// CurrentIdentity extracts the caller identity placed in the context by the
// JWT middleware.
func CurrentIdentity(c echo.Context) (Identity, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return Identity{}, apperr.Unauthorized("missing or invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == uuid.Nil {
		return Identity{}, apperr.Unauthorized("missing or invalid token")
	}
	return Identity{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// RoleAllowed reports whether the caller role is in the allowed set.
// An empty allowed set means any authenticated role.
func RoleAllowed(role model.Role, allowed []model.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// RequireRoles returns middleware enforcing the role gate for an operation.
func RequireRoles(allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := CurrentIdentity(c)
			if err != nil {
				return err
			}
			if !RoleAllowed(identity.Role, allowed) {
				return apperr.Forbidden("insufficient role for this operation")
			}
			return next(c)
		}
	}
}

// CanModifyTask implements the ownership gate: only the task's assignee or
// an admin may update or delete it.
func CanModifyTask(caller Identity, task *model.Task) bool {
	return caller.ID == task.AssignedToID || caller.Role == model.RoleAdmin
}
