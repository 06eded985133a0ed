package contact

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, msg *Message) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO contact_messages (id, name, email, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Body, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting contact message: %w", err)
	}
	return nil
}
