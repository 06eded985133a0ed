package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	BumpDailyStat(ctx context.Context, day time.Time, mode string, guest bool) error
	Summary(ctx context.Context) (*Summary, error)
	ListExamples(ctx context.Context, mode string, limit int) ([]*ExamplePhrase, error)
	UpsertExample(ctx context.Context, mode, original, translation string) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// BumpDailyStat increments the per-day, per-mode counter, creating the row
// on first use of the day.
func (r *postgresRepository) BumpDailyStat(ctx context.Context, day time.Time, mode string, guest bool) error {
	guestInc := 0
	if guest {
		guestInc = 1
	}

	query := `
		INSERT INTO daily_stats (day, mode, translations, guest_share)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (day, mode) DO UPDATE
		SET translations = daily_stats.translations + 1,
		    guest_share = daily_stats.guest_share + $3`

	_, err := r.pool.Exec(ctx, query, day.Truncate(24*time.Hour), mode, guestInc)
	if err != nil {
		return fmt.Errorf("bumping daily stat: %w", err)
	}
	return nil
}

func (r *postgresRepository) Summary(ctx context.Context) (*Summary, error) {
	s := &Summary{ByMode: make(map[string]int64)}

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(translations), 0) FROM daily_stats`).Scan(&s.TotalTranslations)
	if err != nil {
		return nil, fmt.Errorf("summing totals: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(translations), 0) FROM daily_stats WHERE day >= $1`,
		time.Now().AddDate(0, 0, -7)).Scan(&s.Last7Days)
	if err != nil {
		return nil, fmt.Errorf("summing last 7 days: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT mode, COALESCE(SUM(translations), 0) FROM daily_stats GROUP BY mode`)
	if err != nil {
		return nil, fmt.Errorf("querying per-mode totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mode string
		var count int64
		if err := rows.Scan(&mode, &count); err != nil {
			return nil, fmt.Errorf("scanning per-mode total: %w", err)
		}
		s.ByMode[mode] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating per-mode totals: %w", err)
	}

	return s, nil
}

func (r *postgresRepository) ListExamples(ctx context.Context, mode string, limit int) ([]*ExamplePhrase, error) {
	query := `
		SELECT id, mode, original, translation, uses, created_at
		FROM example_phrases
		WHERE ($1 = '' OR mode = $1)
		ORDER BY uses DESC, created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("querying example phrases: %w", err)
	}
	defer rows.Close()

	var examples []*ExamplePhrase
	for rows.Next() {
		ex := &ExamplePhrase{}
		if err := rows.Scan(&ex.ID, &ex.Mode, &ex.Original, &ex.Translation, &ex.Uses, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning example phrase: %w", err)
		}
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating example phrases: %w", err)
	}

	return examples, nil
}

// UpsertExample records a phrase, bumping its popularity when the same
// original has been translated before in the same mode.
func (r *postgresRepository) UpsertExample(ctx context.Context, mode, original, translation string) error {
	query := `
		INSERT INTO example_phrases (mode, original, translation, uses, created_at)
		VALUES ($1, $2, $3, 1, now())
		ON CONFLICT (mode, original) DO UPDATE
		SET uses = example_phrases.uses + 1`

	_, err := r.pool.Exec(ctx, query, mode, original, translation)
	if err != nil {
		return fmt.Errorf("upserting example phrase: %w", err)
	}
	return nil
}
