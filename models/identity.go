package models

// CurrentUser is the caller identity resolved per request by the
// authentication middleware: subject id, email and role set. It is never
// persisted; it lives only on the request context.
type CurrentUser struct {
	UID   string
	Email string
	Roles []string
}

// HasRole reports whether the caller carries the given role string.
func (c *CurrentUser) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
