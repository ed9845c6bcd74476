package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"unibot/internal/domain"
	"unibot/internal/repository"
)

// MaxMessageLength es el límite de caracteres de una pregunta.
const MaxMessageLength = 2000

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrMessageInvalidInput      = errors.New("message invalid input")
	ErrMessageTooLong           = errors.New("message too long")
)

// Answerer produce el texto de respuesta para un mensaje.
type Answerer interface {
	Answer(ctx context.Context, userID, message string) string
}

// ChatReply es lo que recibe quien envía un mensaje.
type ChatReply struct {
	QueryID   string    `json:"query_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatService registra cada turno (pregunta + respuesta) y expone el historial.
type ChatService struct {
	repo   repository.ChatRepository
	router Answerer
	now    func() time.Time
}

func NewChatService(repo repository.ChatRepository, router Answerer) *ChatService {
	return &ChatService{
		repo:   repo,
		router: router,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ValidateMessage rechaza mensajes vacíos o de más de MaxMessageLength caracteres.
func ValidateMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrMessageInvalidInput
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// SubmitMessage valida, guarda la pregunta, obtiene la respuesta y la guarda enlazada.
func (s *ChatService) SubmitMessage(ctx context.Context, userID, text string) (ChatReply, error) {
	if s == nil || s.repo == nil || s.router == nil {
		return ChatReply{}, ErrChatServiceNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return ChatReply{}, ErrMessageInvalidInput
	}
	if err := ValidateMessage(text); err != nil {
		return ChatReply{}, err
	}

	query, err := s.Record(ctx, userID, text)
	if err != nil {
		return ChatReply{}, err
	}

	answer := s.router.Answer(ctx, userID, text)

	if _, err := s.AttachAnswer(ctx, query.ID, answer); err != nil {
		return ChatReply{}, err
	}

	return ChatReply{
		QueryID:   query.ID,
		Message:   text,
		Response:  answer,
		Timestamp: query.CreatedAt,
	}, nil
}

// Record persiste la pregunta y devuelve el registro creado.
func (s *ChatService) Record(ctx context.Context, userID, text string) (domain.ChatQuery, error) {
	if s == nil || s.repo == nil {
		return domain.ChatQuery{}, ErrChatServiceNotConfigured
	}
	// v7: ordenable por tiempo, desempata created_at en el historial
	id, err := uuid.NewV7()
	if err != nil {
		return domain.ChatQuery{}, fmt.Errorf("query id: %w", err)
	}
	query := domain.ChatQuery{
		ID:        id.String(),
		UserID:    userID,
		Content:   text,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateQuery(ctx, query); err != nil {
		return domain.ChatQuery{}, fmt.Errorf("persist query: %w", err)
	}
	return query, nil
}

// AttachAnswer crea la respuesta enlazada a una pregunta ya registrada.
func (s *ChatService) AttachAnswer(ctx context.Context, queryID, text string) (domain.ChatResponse, error) {
	if s == nil || s.repo == nil {
		return domain.ChatResponse{}, ErrChatServiceNotConfigured
	}
	if strings.TrimSpace(queryID) == "" {
		return domain.ChatResponse{}, ErrMessageInvalidInput
	}
	response := domain.ChatResponse{
		ID:        uuid.NewString(),
		QueryID:   queryID,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateResponse(ctx, response); err != nil {
		return domain.ChatResponse{}, fmt.Errorf("persist response: %w", err)
	}
	return response, nil
}

// History devuelve los turnos del usuario, del más viejo al más nuevo.
func (s *ChatService) History(ctx context.Context, userID string) ([]domain.ChatTurn, error) {
	if s == nil || s.repo == nil {
		return nil, ErrChatServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []domain.ChatTurn{}, nil
	}
	return s.repo.ListHistoryByUser(ctx, userID)
}

// Recent es el listado administrativo, más nuevos primero.
func (s *ChatService) Recent(ctx context.Context, limit int) ([]domain.ChatTurn, error) {
	if s == nil || s.repo == nil {
		return nil, ErrChatServiceNotConfigured
	}
	return s.repo.ListRecent(ctx, limit)
}
