package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bioproximity/support-service/internal/domain"
)

// AdminRepository encapsulates admin persistence.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	// ListNotifiableSuperadmins returns superadmins with notifications
	// enabled, in ascending id order.
	ListNotifiableSuperadmins(ctx context.Context) ([]domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `id, first_name, last_name, email, password_hash, role,
       email_notifications, created_at, updated_at`

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (first_name, last_name, email, password_hash, role, email_notifications)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		admin.FirstName,
		admin.LastName,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.EmailNotifications,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.fetchSingle(ctx, `SELECT `+adminColumns+` FROM admins WHERE id=$1`, id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.fetchSingle(ctx, `SELECT `+adminColumns+` FROM admins WHERE email=$1`, email)
}

func (r *adminRepository) ListNotifiableSuperadmins(ctx context.Context) ([]domain.Admin, error) {
	const query = `SELECT ` + adminColumns + `
        FROM admins WHERE role=$1 AND email_notifications=TRUE ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, domain.AdminRoleSuperadmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Admin
	for rows.Next() {
		var admin domain.Admin
		if err := rows.Scan(
			&admin.ID,
			&admin.FirstName,
			&admin.LastName,
			&admin.Email,
			&admin.PasswordHash,
			&admin.Role,
			&admin.EmailNotifications,
			&admin.CreatedAt,
			&admin.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, admin)
	}
	return result, rows.Err()
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.FirstName,
		&admin.LastName,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.EmailNotifications,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}
