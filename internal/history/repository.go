package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*Entry, int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO translations (id, user_id, mode, original, translation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Mode, entry.Original, entry.Translation, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting translation: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*Entry, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM translations WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting translations: %w", err)
	}

	query := `
		SELECT id, user_id, mode, original, translation, created_at
		FROM translations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("querying translations: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Mode,
			&entry.Original, &entry.Translation, &entry.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning translation: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating translations: %w", err)
	}

	return entries, total, nil
}

// Delete removes an entry only when it belongs to userID. Returns false
// when no matching row exists.
func (r *postgresRepository) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM translations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("deleting translation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
