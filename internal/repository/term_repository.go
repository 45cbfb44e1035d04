package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edumirror/mirror-api/internal/models"
)

// TermRepository handles persistence of mirrored terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository constructs the repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// Upsert inserts or replaces a term by primary key. The ext argument lets the
// sync engine run the write inside its snapshot transaction.
func (r *TermRepository) Upsert(ctx context.Context, ext sqlx.ExtContext, term *models.Term) error {
	const query = `INSERT INTO terms (id, name, start_at, end_at)
        VALUES (:id, :name, :start_at, :end_at)
        ON CONFLICT (id) DO UPDATE SET name = excluded.name, start_at = excluded.start_at, end_at = excluded.end_at`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, term); err != nil {
		return fmt.Errorf("upsert term: %w", err)
	}
	return nil
}

// FindByID loads a term by identifier.
func (r *TermRepository) FindByID(ctx context.Context, id int64) (*models.Term, error) {
	query := r.db.Rebind(`SELECT id, name, start_at, end_at FROM terms WHERE id = ?`)
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		return nil, err
	}
	return &term, nil
}
