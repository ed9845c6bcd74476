package llm

import "errors"

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role
	Content string
}

// Request es un turno completo hacia el proveedor.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeProviderFailure
)

// Result distingue una respuesta válida de una falla del proveedor.
type Result struct {
	Outcome Outcome
	Text    string
	Reason  error
}

func Success(text string) Result {
	return Result{Outcome: OutcomeSuccess, Text: text}
}

func ProviderFailure(reason error) Result {
	if reason == nil {
		reason = errors.New("provider failure")
	}
	return Result{Outcome: OutcomeProviderFailure, Reason: reason}
}
