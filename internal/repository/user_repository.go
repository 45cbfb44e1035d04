package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edumirror/mirror-api/internal/models"
)

// UserRepository handles persistence of mirrored users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts or replaces a user by primary key.
func (r *UserRepository) Upsert(ctx context.Context, ext sqlx.ExtContext, user *models.User) error {
	const query = `INSERT INTO users (id, name, short_name, login_id, avatar_url)
        VALUES (:id, :name, :short_name, :login_id, :avatar_url)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            short_name = excluded.short_name,
            login_id = excluded.login_id,
            avatar_url = excluded.avatar_url`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, user); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// FindByID loads a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := r.db.Rebind(`SELECT id, name, short_name, login_id, avatar_url FROM users WHERE id = ?`)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}
