package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bioproximity/support-service/internal/domain"
)

// CommentRepository manages ticket thread comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = `id, ticket_id, body, author_type, author_user_id, author_admin_id, created_at, updated_at`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, body, author_type, author_user_id, author_admin_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	authorType, authorUserID, authorAdminID := authorColumns(comment.Author)
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.Body,
		authorType,
		authorUserID,
		authorAdminID,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE id=$1`
	var (
		comment       domain.Comment
		authorType    domain.AuthorType
		authorUserID  *string
		authorAdminID *string
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.Body,
		&authorType,
		&authorUserID,
		&authorAdminID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	comment.Author = scanAuthor(authorType, authorUserID, authorAdminID)
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE comments SET body=$1, updated_at=NOW() WHERE id=$2`,
		comment.Body, comment.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	const query = `SELECT ` + commentColumns + `
        FROM comments WHERE ticket_id=$1 ORDER BY updated_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var (
			comment       domain.Comment
			authorType    domain.AuthorType
			authorUserID  *string
			authorAdminID *string
		)
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.Body,
			&authorType,
			&authorUserID,
			&authorAdminID,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		comment.Author = scanAuthor(authorType, authorUserID, authorAdminID)
		result = append(result, comment)
	}
	return result, rows.Err()
}
