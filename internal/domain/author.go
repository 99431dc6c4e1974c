package domain

// AuthorType tags who authored a ticket or comment.
type AuthorType string

const (
	AuthorTypeUser   AuthorType = "user"
	AuthorTypeAdmin  AuthorType = "admin"
	AuthorTypeSystem AuthorType = "system"
)

// SystemAuthorName is displayed for records created without an author.
const SystemAuthorName = "Bioproximity Support"

// Author is a tagged union over user, admin and system authorship.
// Exactly one of UserID / AdminID is set for the user and admin variants.
type Author struct {
	Type    AuthorType
	UserID  *string
	AdminID *string
}

// UserAuthor builds the user variant.
func UserAuthor(userID string) Author {
	return Author{Type: AuthorTypeUser, UserID: &userID}
}

// AdminAuthor builds the admin variant.
func AdminAuthor(adminID string) Author {
	return Author{Type: AuthorTypeAdmin, AdminID: &adminID}
}

// SystemAuthor builds the system variant.
func SystemAuthor() Author {
	return Author{Type: AuthorTypeSystem}
}

// IsUser reports whether the author is an end-user.
func (a Author) IsUser() bool {
	return a.Type == AuthorTypeUser
}

// IsAdmin reports whether the author is back-office staff.
func (a Author) IsAdmin() bool {
	return a.Type == AuthorTypeAdmin
}

// Valid reports whether the tag and id fields are consistent.
func (a Author) Valid() bool {
	switch a.Type {
	case AuthorTypeUser:
		return a.UserID != nil && a.AdminID == nil
	case AuthorTypeAdmin:
		return a.AdminID != nil && a.UserID == nil
	case AuthorTypeSystem:
		return a.UserID == nil && a.AdminID == nil
	}
	return false
}

// AuthorNames resolves display names for each author variant.
// hideAdmin substitutes the system name for admin authors, mirroring the
// customer-facing view where staff identities are not exposed.
type AuthorNames interface {
	UserName(userID string) string
	AdminName(adminID string) string
}

// DisplayName resolves the author's display name through the given lookup.
func (a Author) DisplayName(names AuthorNames, hideAdmin bool) string {
	switch {
	case a.Type == AuthorTypeUser && a.UserID != nil:
		return names.UserName(*a.UserID)
	case a.Type == AuthorTypeAdmin && a.AdminID != nil && !hideAdmin:
		return names.AdminName(*a.AdminID)
	default:
		return SystemAuthorName
	}
}
