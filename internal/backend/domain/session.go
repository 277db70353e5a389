package domain

// Session carries the credentials of a signed-in user. Routes that act on a
// user need UUID; updates also need Password.
type Session struct {
	UUID     string
	Username string
	Email    string
	Password string
}

// Updatable user attributes.
const (
	AttributeEmail    = "email"
	AttributeUsername = "username"
	AttributePassword = "password"
)

// ValidAttribute reports whether attribute can be updated.
func ValidAttribute(attribute string) bool {
	switch attribute {
	case AttributeEmail, AttributeUsername, AttributePassword:
		return true
	}
	return false
}
