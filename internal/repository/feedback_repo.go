package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"unibot/internal/domain"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback domain.Feedback) error
	ListByUser(ctx context.Context, userID string) ([]domain.Feedback, error)
}

type PgFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeedbackRepository(pool *pgxpool.Pool) *PgFeedbackRepository {
	return &PgFeedbackRepository{pool: pool}
}

func (r *PgFeedbackRepository) Create(ctx context.Context, feedback domain.Feedback) error {
	const query = `
		INSERT INTO feedback (id, user_id, comment, rating, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.UserID,
		feedback.Comment,
		feedback.Rating,
		feedback.CreatedAt,
	)
	return err
}

func (r *PgFeedbackRepository) ListByUser(ctx context.Context, userID string) ([]domain.Feedback, error) {
	const query = `
		SELECT id, user_id, comment, rating, created_at
		FROM feedback
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Feedback{}
	for rows.Next() {
		var f domain.Feedback
		if err = rows.Scan(&f.ID, &f.UserID, &f.Comment, &f.Rating, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
