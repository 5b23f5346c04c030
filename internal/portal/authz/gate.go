// Package authz is the render-time gate: a pure check of the current
// identity against a view's required roles. It protects surfaces only;
// the server enforces the same rules on every request.
package authz

import (
	"staffdesk/internal/domain"
	"staffdesk/internal/portal/session"
)

// CanRender reports whether the identity may see a gated surface. No
// identity sees nothing; an empty requirement admits any signed-in
// identity; otherwise the identity's role must be listed.
func CanRender(identity *session.Identity, required []domain.Role) bool {
	if identity == nil {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, role := range required {
		if identity.Role == role {
			return true
		}
	}
	return false
}

// GuestOnly reports whether a guest-only surface (login, register)
// should be shown. Signed-in identities are steered away.
func GuestOnly(identity *session.Identity) bool {
	return identity == nil
}
