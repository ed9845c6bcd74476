package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Result  Result
	Calls   int
	LastReq Request
	Block   bool
}

func (m *MockClient) Complete(ctx context.Context, req Request) Result {
	m.Calls++
	m.LastReq = req
	if m.Block {
		<-ctx.Done()
		return ProviderFailure(ctx.Err())
	}
	return m.Result
}
