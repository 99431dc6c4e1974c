package dto

import (
	"time"

	"github.com/bioproximity/support-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title            string                   `json:"title"`
	Description      string                   `json:"description"`
	PreferredContact *domain.PreferredContact `json:"preferred_contact"`
	OrderID          *string                  `json:"order_id"`
	OrderedAssayID   *string                  `json:"ordered_assay_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// UpdateCommentRequest payload.
type UpdateCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse represents one thread entry.
type CommentResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	Body       string    `json:"body"`
	AuthorType string    `json:"author_type"`
	AuthorID   *string   `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TicketResponse provides full ticket info.
type TicketResponse struct {
	ID               string                   `json:"id"`
	Title            string                   `json:"title"`
	Description      string                   `json:"description"`
	Status           domain.TicketStatus      `json:"status"`
	PreferredContact *domain.PreferredContact `json:"preferred_contact"`
	OrderID          *string                  `json:"order_id"`
	OrderedAssayID   *string                  `json:"ordered_assay_id"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	Comments         []CommentResponse        `json:"comments,omitempty"`
}

// WorkflowResponse is the uniform outcome shape for ticket and comment
// mutations.
type WorkflowResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// NewTicketResponse maps the domain model.
func NewTicketResponse(t *domain.Ticket, comments []domain.Comment) TicketResponse {
	resp := TicketResponse{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Status:           t.Status,
		PreferredContact: t.PreferredContact,
		OrderID:          t.OrderID,
		OrderedAssayID:   t.OrderedAssayID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(&comments[i]))
	}
	return resp
}

// NewCommentResponse maps the domain model.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:         c.ID,
		TicketID:   c.TicketID,
		Body:       c.Body,
		AuthorType: string(c.Author.Type),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	switch {
	case c.Author.IsUser():
		resp.AuthorID = c.Author.UserID
	case c.Author.IsAdmin():
		resp.AuthorID = c.Author.AdminID
	}
	return resp
}
