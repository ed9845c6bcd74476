package domain

import "time"

// ChatQuery es la pregunta que un usuario le hace al bot.
type ChatQuery struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// ChatResponse es la respuesta (única) asociada a un ChatQuery.
type ChatResponse struct {
	ID        string    `json:"id"`
	QueryID   string    `json:"query_id"`
	Text      string    `json:"response_text"`
	CreatedAt time.Time `json:"timestamp"`
}

// ChatTurn empareja una consulta con su respuesta, si existe.
type ChatTurn struct {
	Query    ChatQuery     `json:"query"`
	Response *ChatResponse `json:"response,omitempty"`
}
