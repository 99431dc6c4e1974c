package repository

import "github.com/bioproximity/support-service/internal/domain"

// authorColumns splits a tagged author union into its table columns.
func authorColumns(a domain.Author) (authorType domain.AuthorType, userID, adminID *string) {
	return a.Type, a.UserID, a.AdminID
}

// scanAuthor rebuilds the tagged union from table columns.
func scanAuthor(authorType domain.AuthorType, userID, adminID *string) domain.Author {
	return domain.Author{Type: authorType, UserID: userID, AdminID: adminID}
}
