package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/seesakulchai/scc-api/internal/model"
)

const uniqueViolation = "23505"

var _ model.AdminStore = (*AdminRepository)(nil)

type AdminRepository struct {
	db *Connection
}

func NewAdminRepository(db *Connection) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	const query = `SELECT id, email, password_hash, created_at, updated_at
		FROM admins WHERE email = $1`

	admin, err := scanAdmin(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return model.Admin{}, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return admin, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	const query = `SELECT id, email, password_hash, created_at, updated_at
		FROM admins WHERE id = $1`

	admin, err := scanAdmin(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return model.Admin{}, fmt.Errorf("failed to get admin by id: %w", err)
	}
	return admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin model.Admin) (model.Admin, error) {
	const query = `INSERT INTO admins (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, password_hash, created_at, updated_at`

	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}

	saved, err := scanAdmin(r.db.QueryRow(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.CreatedAt, admin.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.Admin{}, fmt.Errorf("admin %s: %w", admin.Email, model.ErrAlreadyExists)
		}
		return model.Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}
	return saved, nil
}

func scanAdmin(row pgx.Row) (model.Admin, error) {
	var a model.Admin
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Admin{}, model.ErrNotFound
	}
	if err != nil {
		return model.Admin{}, err
	}
	return a, nil
}
