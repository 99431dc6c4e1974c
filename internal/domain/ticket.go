package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// PreferredContact enumerates how the user wants to be reached.
type PreferredContact string

const (
	PreferredContactEmail PreferredContact = "email"
	PreferredContactPhone PreferredContact = "phone"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 10000
)

// Ticket is a support request tied to exactly one order or one lab project.
type Ticket struct {
	ID               string
	Title            string
	Description      string
	Status           TicketStatus
	PreferredContact *PreferredContact
	UserID           string
	Author           Author
	OrderID          *string
	OrderedAssayID   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Closed reports whether the ticket has been closed.
func (t *Ticket) Closed() bool {
	return t.Status == TicketStatusClosed
}

// Open reports whether the ticket accepts new comments.
func (t *Ticket) Open() bool {
	return t.Status == TicketStatusOpen
}

// Validate applies field rules and the order/project exclusivity invariant.
// The owning user is needed to check the phone-contact rule.
func (t *Ticket) Validate(owner *User) ValidationErrors {
	errs := ValidationErrors{}
	if blank(t.Title) {
		errs.Add("title", "can't be blank")
	} else if len(t.Title) > maxTitleLength {
		errs.Add("title", "is too long")
	}
	if blank(t.Description) {
		errs.Add("description", "can't be blank")
	} else if len(t.Description) > maxDescriptionLength {
		errs.Add("description", "is too long")
	}
	if t.UserID == "" {
		errs.Add("user", "can't be blank")
	}
	if t.Status != TicketStatusOpen && t.Status != TicketStatusClosed {
		errs.Add("status", "is invalid")
	}
	// Exactly one of order / ordered assay must be referenced.
	if (t.OrderID != nil) == (t.OrderedAssayID != nil) {
		errs.Add("order_id", "Specify an order or a project, not both")
		errs.Add("ordered_assay_id", "Specify an order or a project, not both")
	}
	if t.PreferredContact != nil {
		switch *t.PreferredContact {
		case PreferredContactEmail:
		case PreferredContactPhone:
			if owner != nil && !owner.HasPhone() {
				errs.Add("preferred_contact", "Specify phone number on profile page")
			}
		default:
			errs.Add("preferred_contact", "is invalid")
		}
	}
	return errs
}
