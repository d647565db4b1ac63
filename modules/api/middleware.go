package api

import (
	"log"

	domain "github.com/example/taskmanager/domain/user"
	"github.com/example/taskmanager/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookieName is the cookie carrying the opaque session id.
	SessionCookieName = "sessionid"

	// IdentityContextKey is the key used to store the resolved identity in
	// the Fiber context.
	IdentityContextKey = "identity"
)

// Error details, matching the wording clients of the original API expect.
const (
	detailForbidden   = "You do not have permission to perform this action."
	detailNotFound    = "Not found."
	detailInvalidBody = "Invalid request body."
	detailInvalidPage = "Invalid page."
	detailInternal    = "An internal error occurred."
)

// SessionMiddleware resolves the session cookie into an identity for
// every request. Requests without a resolvable session continue as
// anonymous; route guards decide what anonymous callers may do.
func SessionMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookieName)
		if sessionID == "" {
			return c.Next()
		}

		identity, err := authAdapter.ResolveSession(c.UserContext(), sessionID)
		if err != nil {
			log.Printf("[api] Session resolution failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(DetailResponse{
				Detail: detailInternal,
			})
		}
		if identity != nil {
			c.Locals(IdentityContextKey, identity)
		}

		return c.Next()
	}
}

// RequireSession rejects anonymous callers with Forbidden. The status is
// 403 rather than 401: an unauthenticated caller and a non-owner get the
// same answer everywhere on the task surface.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentIdentity(c) == nil {
			return c.Status(fiber.StatusForbidden).JSON(DetailResponse{
				Detail: detailForbidden,
			})
		}
		return c.Next()
	}
}

// currentIdentity returns the identity resolved by SessionMiddleware, or
// nil for anonymous requests.
func currentIdentity(c *fiber.Ctx) *domain.Identity {
	identity, ok := c.Locals(IdentityContextKey).(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}
