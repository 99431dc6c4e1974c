package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bioproximity/support-service/internal/domain"
)

// OrderRepository encapsulates order and shipment-leg persistence.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// ExistsForUser reports whether the order belongs to the given user.
	ExistsForUser(ctx context.Context, orderID, userID string) (bool, error)
	SaveLegResult(ctx context.Context, leg *domain.ShipmentLeg) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates the repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
        SELECT id, user_id, shipping_type, total, created_at, updated_at
        FROM orders WHERE id=$1`
	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.ShippingType,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	legs, err := r.legsByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	for i := range legs {
		switch legs[i].Leg {
		case 1:
			order.LegOne = &legs[i]
		case 2:
			order.LegTwo = &legs[i]
		}
	}
	return &order, nil
}

func (r *orderRepository) ExistsForUser(ctx context.Context, orderID, userID string) (bool, error) {
	const query = `SELECT 1 FROM orders WHERE id=$1 AND user_id=$2`
	var one int
	err := r.pool.QueryRow(ctx, query, orderID, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *orderRepository) SaveLegResult(ctx context.Context, leg *domain.ShipmentLeg) error {
	const query = `
        INSERT INTO shipment_legs (order_id, leg, submission_date, account_number, transaction_id, tracking_number, tracking_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (order_id, leg) DO UPDATE
            SET transaction_id=EXCLUDED.transaction_id,
                tracking_number=EXCLUDED.tracking_number,
                tracking_url=EXCLUDED.tracking_url
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		leg.OrderID,
		leg.Leg,
		leg.SubmissionDate,
		leg.AccountNumber,
		leg.TransactionID,
		leg.TrackingNumber,
		leg.TrackingURL,
	).Scan(&leg.ID)
}

func (r *orderRepository) legsByOrder(ctx context.Context, orderID string) ([]domain.ShipmentLeg, error) {
	const query = `
        SELECT id, order_id, leg, submission_date, account_number, transaction_id, tracking_number, tracking_url
        FROM shipment_legs WHERE order_id=$1 ORDER BY leg ASC`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ShipmentLeg
	for rows.Next() {
		var leg domain.ShipmentLeg
		if err := rows.Scan(
			&leg.ID,
			&leg.OrderID,
			&leg.Leg,
			&leg.SubmissionDate,
			&leg.AccountNumber,
			&leg.TransactionID,
			&leg.TrackingNumber,
			&leg.TrackingURL,
		); err != nil {
			return nil, err
		}
		result = append(result, leg)
	}
	return result, rows.Err()
}
