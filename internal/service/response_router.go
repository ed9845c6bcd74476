package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"unibot/internal/config"
	"unibot/internal/llm"
)

// SystemPrompt define el comportamiento de UNIBOT frente al proveedor externo.
const SystemPrompt = `You are UNIBOT, a smart AI assistant for university students.
You help students with:
- Course details, syllabi, and schedules
- Assignment information and deadlines
- Administrative procedures and campus information
- General academic guidance

When answering, be helpful, concise, and student-friendly.
If course-specific data is provided in the context, use it to give accurate answers.
Always be encouraging and supportive of students' academic journeys.
`

const defaultLLMTimeout = 20 * time.Second

// Responder es el contrato del camino determinístico.
type Responder interface {
	Respond(ctx context.Context, userID, message string) string
}

// ResponseRouter decide entre el LLM externo y el responder local. Siempre
// devuelve exactamente una respuesta no vacía.
type ResponseRouter struct {
	settings config.LLMSettings
	client   llm.ChatCompleter
	builder  ContextBuilder
	fallback Responder
	logger   *zap.Logger
}

func NewResponseRouter(
	settings config.LLMSettings,
	client llm.ChatCompleter,
	builder ContextBuilder,
	fallback Responder,
	logger *zap.Logger,
) *ResponseRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.Timeout <= 0 {
		settings.Timeout = defaultLLMTimeout
	}
	return &ResponseRouter{
		settings: settings,
		client:   client,
		builder:  builder,
		fallback: fallback,
		logger:   logger,
	}
}

// Answer genera la respuesta para un mensaje. Las fallas del proveedor nunca
// llegan al caller: se loguean y se usa el fallback.
func (r *ResponseRouter) Answer(ctx context.Context, userID, message string) string {
	if !r.settings.HasValidCredential() || r.client == nil {
		return r.fallback.Respond(ctx, userID, message)
	}

	enrollmentCtx, err := r.builder.BuildContext(ctx, userID)
	if err != nil {
		r.logger.Error("build context failed", zap.Error(err), zap.String("user_id", userID))
		return r.fallback.Respond(ctx, userID, message)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.settings.Timeout)
	defer cancel()

	result := r.client.Complete(callCtx, llm.Request{
		Messages:    BuildPrompt(enrollmentCtx.Render(), message),
		MaxTokens:   r.settings.MaxTokens,
		Temperature: r.settings.Temperature,
	})

	switch result.Outcome {
	case llm.OutcomeSuccess:
		if result.Text != "" {
			return result.Text
		}
		r.logger.Error("llm returned empty text", zap.String("user_id", userID))
	default:
		r.logger.Error("llm provider failure", zap.Error(result.Reason), zap.String("user_id", userID))
	}
	return r.fallback.Respond(ctx, userID, message)
}

// BuildPrompt arma el prompt de tres partes: instrucciones, contexto y mensaje.
func BuildPrompt(contextText, message string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleSystem, Content: "Course Context:\n" + contextText},
		{Role: llm.RoleUser, Content: message},
	}
}
