package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bioproximity/support-service/internal/domain"
)

// PlanRepository looks up subscription plans.
type PlanRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Plan, error)
}

type planRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository instantiates the repository.
func NewPlanRepository(pool *pgxpool.Pool) PlanRepository {
	return &planRepository{pool: pool}
}

func (r *planRepository) GetByCode(ctx context.Context, code string) (*domain.Plan, error) {
	const query = `SELECT code, name, price, ticket_support_days FROM plans WHERE code=$1`
	var plan domain.Plan
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&plan.Code,
		&plan.Name,
		&plan.Price,
		&plan.TicketSupportDays,
	); err != nil {
		return nil, err
	}
	return &plan, nil
}
