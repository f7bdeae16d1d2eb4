// file: internals/helpers/auth/claims.go
package helperauth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* =========================
   Locals keys (hydrated by the JWT middleware)
   ========================= */

const (
	LocUserID           = "user_id"
	LocAdminInstituteID = "admin_institute_id"
	LocIsOwner          = "is_owner"
)

func strLocal(c *fiber.Ctx, key string) string {
	if v := c.Locals(key); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// IsOwner: platform owner bypasses the per-institute admin check.
func IsOwner(c *fiber.Ctx) bool {
	if v := c.Locals(LocIsOwner); v != nil {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// GetInstituteIDFromToken returns the admin's institute scope, or uuid.Nil
// when the token carries none (read-only caller).
func GetInstituteIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw := strLocal(c, LocAdminInstituteID)
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "no institute scope in token")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid institute scope in token")
	}
	return id, nil
}

// EnsureAdminInstitute: caller must hold admin identity for the given
// institute. Absence of the scope degrades the caller to read-only, so
// mutating handlers call this first.
func EnsureAdminInstitute(c *fiber.Ctx, instituteID uuid.UUID) error {
	act, err := GetInstituteIDFromToken(c)
	if err != nil {
		return err
	}
	if act != instituteID {
		return fiber.NewError(fiber.StatusForbidden, "institute scope mismatch")
	}
	return nil
}
