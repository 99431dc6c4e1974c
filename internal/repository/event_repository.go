package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bioproximity/support-service/internal/domain"
)

// EventRepository persists immutable audit events. There is no update path.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	ListByType(ctx context.Context, eventType domain.EventType, limit int) ([]domain.Event, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates the repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	meta, err := json.Marshal(event.Meta)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO events (id, event_type, title, order_id, ordered_assay_id, user_id, meta)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		event.ID,
		event.EventType,
		event.Title,
		event.OrderID,
		event.OrderedAssayID,
		event.UserID,
		meta,
	).Scan(&event.CreatedAt)
}

func (r *eventRepository) ListByType(ctx context.Context, eventType domain.EventType, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, event_type, title, order_id, ordered_assay_id, user_id, meta, created_at
        FROM events WHERE event_type=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, eventType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		var (
			event domain.Event
			meta  []byte
		)
		if err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.Title,
			&event.OrderID,
			&event.OrderedAssayID,
			&event.UserID,
			&meta,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(meta, &event.Meta); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
