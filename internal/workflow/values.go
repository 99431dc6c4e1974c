package workflow

import "github.com/bioproximity/support-service/internal/domain"

// Named value keys shared across ticket and comment workflows.
const (
	keyTicket  = "ticket"
	keyComment = "comment"
	keyEvent   = "event"
	keyUser    = "user"
	keyAdmin   = "admin"
	keyErrors  = "errors"
)

// ValidationErrors returns field errors attached by a failed validation
// step, nil when the run failed for another reason or succeeded.
func (r *Run) ValidationErrors() domain.ValidationErrors {
	if v, ok := r.Get(keyErrors); ok {
		if errs, ok := v.(domain.ValidationErrors); ok {
			return errs
		}
	}
	return nil
}

// SetValidationErrors attaches field errors to the run.
func (r *Run) SetValidationErrors(errs domain.ValidationErrors) {
	r.Set(keyErrors, errs)
}

// Ticket returns the ticket attached to the run, nil when absent.
func (r *Run) Ticket() *domain.Ticket {
	if v, ok := r.Get(keyTicket); ok {
		if t, ok := v.(*domain.Ticket); ok {
			return t
		}
	}
	return nil
}

// SetTicket attaches a ticket to the run.
func (r *Run) SetTicket(t *domain.Ticket) {
	r.Set(keyTicket, t)
}

// Comment returns the comment attached to the run, nil when absent.
func (r *Run) Comment() *domain.Comment {
	if v, ok := r.Get(keyComment); ok {
		if c, ok := v.(*domain.Comment); ok {
			return c
		}
	}
	return nil
}

// SetComment attaches a comment to the run.
func (r *Run) SetComment(c *domain.Comment) {
	r.Set(keyComment, c)
}

// Event returns the audit event attached to the run, nil when absent.
func (r *Run) Event() *domain.Event {
	if v, ok := r.Get(keyEvent); ok {
		if e, ok := v.(*domain.Event); ok {
			return e
		}
	}
	return nil
}

// SetEvent attaches an audit event to the run.
func (r *Run) SetEvent(e *domain.Event) {
	r.Set(keyEvent, e)
}

// User returns the acting user attached to the run, nil when absent.
func (r *Run) User() *domain.User {
	if v, ok := r.Get(keyUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// SetUser attaches the acting user to the run.
func (r *Run) SetUser(u *domain.User) {
	r.Set(keyUser, u)
}

// Admin returns the acting admin attached to the run, nil when absent.
func (r *Run) Admin() *domain.Admin {
	if v, ok := r.Get(keyAdmin); ok {
		if a, ok := v.(*domain.Admin); ok {
			return a
		}
	}
	return nil
}

// SetAdmin attaches the acting admin to the run.
func (r *Run) SetAdmin(a *domain.Admin) {
	r.Set(keyAdmin, a)
}
