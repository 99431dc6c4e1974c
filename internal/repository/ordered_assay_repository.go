package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bioproximity/support-service/internal/domain"
)

// OrderedAssayRepository encapsulates lab project persistence.
type OrderedAssayRepository interface {
	GetByID(ctx context.Context, id string) (*domain.OrderedAssay, error)
	// GetByIDForUser returns the assay only when it belongs to the user;
	// a foreign or unknown assay yields (nil, nil).
	GetByIDForUser(ctx context.Context, id, userID string) (*domain.OrderedAssay, error)
}

type orderedAssayRepository struct {
	pool *pgxpool.Pool
}

// NewOrderedAssayRepository instantiates the repository.
func NewOrderedAssayRepository(pool *pgxpool.Pool) OrderedAssayRepository {
	return &orderedAssayRepository{pool: pool}
}

const assayColumns = `id, user_id, order_id, name, project_status, completed_at, created_at, updated_at`

func (r *orderedAssayRepository) GetByID(ctx context.Context, id string) (*domain.OrderedAssay, error) {
	return r.fetchSingle(ctx, `SELECT `+assayColumns+` FROM ordered_assays WHERE id=$1`, id)
}

func (r *orderedAssayRepository) GetByIDForUser(ctx context.Context, id, userID string) (*domain.OrderedAssay, error) {
	assay, err := r.fetchSingle(ctx,
		`SELECT `+assayColumns+` FROM ordered_assays WHERE id=$1 AND user_id=$2`, id, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return assay, err
}

func (r *orderedAssayRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.OrderedAssay, error) {
	var assay domain.OrderedAssay
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&assay.ID,
		&assay.UserID,
		&assay.OrderID,
		&assay.Name,
		&assay.ProjectStatus,
		&assay.CompletedAt,
		&assay.CreatedAt,
		&assay.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &assay, nil
}
