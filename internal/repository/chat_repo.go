package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"unibot/internal/domain"
)

// ChatRepository persiste consultas y respuestas. Cada respuesta referencia a
// su consulta (query_id UNIQUE, ON DELETE CASCADE).
type ChatRepository interface {
	CreateQuery(ctx context.Context, query domain.ChatQuery) error
	CreateResponse(ctx context.Context, response domain.ChatResponse) error
	ListHistoryByUser(ctx context.Context, userID string) ([]domain.ChatTurn, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ChatTurn, error)
}

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) CreateQuery(ctx context.Context, query domain.ChatQuery) error {
	const stmt = `
		INSERT INTO queries (id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, stmt, query.ID, query.UserID, query.Content, query.CreatedAt)
	return err
}

func (r *PgChatRepository) CreateResponse(ctx context.Context, response domain.ChatResponse) error {
	const stmt = `
		INSERT INTO responses (id, query_id, response_text, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, stmt, response.ID, response.QueryID, response.Text, response.CreatedAt)
	return mapWriteErr(err)
}

const turnSelect = `
	SELECT q.id, q.user_id, q.content, q.created_at, r.id, r.response_text, r.created_at
	FROM queries q
	LEFT JOIN responses r ON r.query_id = q.id
`

// ListHistoryByUser devuelve los turnos del usuario del más viejo al más nuevo.
func (r *PgChatRepository) ListHistoryByUser(ctx context.Context, userID string) ([]domain.ChatTurn, error) {
	return r.list(ctx, turnSelect+` WHERE q.user_id = $1 ORDER BY q.created_at ASC, q.id`, userID)
}

// ListRecent es el listado administrativo: más nuevos primero.
func (r *PgChatRepository) ListRecent(ctx context.Context, limit int) ([]domain.ChatTurn, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.list(ctx, turnSelect+` ORDER BY q.created_at DESC, q.id DESC LIMIT $1`, limit)
}

func (r *PgChatRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.ChatTurn, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := []domain.ChatTurn{}
	for rows.Next() {
		var (
			turn         domain.ChatTurn
			responseID   *string
			responseText *string
			responseAt   *time.Time
		)
		err = rows.Scan(
			&turn.Query.ID,
			&turn.Query.UserID,
			&turn.Query.Content,
			&turn.Query.CreatedAt,
			&responseID,
			&responseText,
			&responseAt,
		)
		if err != nil {
			return nil, err
		}
		if responseID != nil {
			turn.Response = &domain.ChatResponse{
				ID:      *responseID,
				QueryID: turn.Query.ID,
				Text:    derefString(responseText),
			}
			if responseAt != nil {
				turn.Response.CreatedAt = *responseAt
			}
		}
		turns = append(turns, turn)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return turns, nil
}
