package domain

import "time"

const maxCommentLength = 10000

// Comment is a message in a ticket thread, authored by the ticket's user
// or by an admin.
type Comment struct {
	ID        string
	TicketID  string
	Body      string
	Author    Author
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthoredByTicketOwner reports whether the comment was written by the
// ticket's owning user.
func (c *Comment) AuthoredByTicketOwner(ticket *Ticket) bool {
	return c.Author.IsUser() && c.Author.UserID != nil && *c.Author.UserID == ticket.UserID
}

// Validate applies field rules and the single-author invariant.
func (c *Comment) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if blank(c.Body) {
		errs.Add("body", "can't be blank")
	} else if len(c.Body) > maxCommentLength {
		errs.Add("body", "is too long")
	}
	if c.TicketID == "" {
		errs.Add("ticket", "can't be blank")
	}
	if !c.Author.Valid() || c.Author.Type == AuthorTypeSystem {
		errs.Add("author", "must be a user or an admin")
	}
	return errs
}
