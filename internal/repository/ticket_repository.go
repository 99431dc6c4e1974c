package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bioproximity/support-service/internal/domain"
)

// TicketFilter captures ticket search parameters.
type TicketFilter struct {
	UserID         *string
	Status         *domain.TicketStatus
	OrderID        *string
	OrderedAssayID *string
	Limit          int
	Offset         int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// GetByIDForUser enforces ownership at the query level.
	GetByIDForUser(ctx context.Context, id, userID string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, description, status, preferred_contact, user_id,
       author_type, author_user_id, author_admin_id, order_id, ordered_assay_id,
       created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, preferred_contact, user_id, author_type, author_user_id, author_admin_id, order_id, ordered_assay_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	authorType, authorUserID, authorAdminID := authorColumns(ticket.Author)
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.PreferredContact,
		ticket.UserID,
		authorType,
		authorUserID,
		authorAdminID,
		ticket.OrderID,
		ticket.OrderedAssayID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id=$1 AND user_id=$2`, id, userID)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.OrderID != nil {
		args = append(args, *filter.OrderID)
		clauses = append(clauses, fmt.Sprintf("order_id=$%d", len(args)))
	}
	if filter.OrderedAssayID != nil {
		args = append(args, *filter.OrderedAssayID)
		clauses = append(clauses, fmt.Sprintf("ordered_assay_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var (
		ticket        domain.Ticket
		authorType    domain.AuthorType
		authorUserID  *string
		authorAdminID *string
	)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.PreferredContact,
		&ticket.UserID,
		&authorType,
		&authorUserID,
		&authorAdminID,
		&ticket.OrderID,
		&ticket.OrderedAssayID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Author = scanAuthor(authorType, authorUserID, authorAdminID)
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var (
			ticket        domain.Ticket
			authorType    domain.AuthorType
			authorUserID  *string
			authorAdminID *string
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.PreferredContact,
			&ticket.UserID,
			&authorType,
			&authorUserID,
			&authorAdminID,
			&ticket.OrderID,
			&ticket.OrderedAssayID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ticket.Author = scanAuthor(authorType, authorUserID, authorAdminID)
		result = append(result, ticket)
	}
	return result, rows.Err()
}
