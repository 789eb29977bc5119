package memory

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar al servicio real. Registra los mensajes enviados.
type MockClient struct {
	mu sync.Mutex

	Assistant Assistant
	Thread    Thread
	Reply     Message
	Err       error

	AssistantRequests []CreateAssistantRequest
	Sent              []SendMessageRequest
}

func (m *MockClient) CreateAssistant(_ context.Context, req CreateAssistantRequest) (Assistant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AssistantRequests = append(m.AssistantRequests, req)
	return m.Assistant, m.Err
}

func (m *MockClient) CreateThread(_ context.Context, _ string) (Thread, error) {
	return m.Thread, m.Err
}

func (m *MockClient) SendMessage(_ context.Context, _ string, req SendMessageRequest) (Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, req)
	return m.Reply, m.Err
}

// SentMessages devuelve una copia segura para leer desde otra goroutine.
func (m *MockClient) SentMessages() []SendMessageRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SendMessageRequest, len(m.Sent))
	copy(out, m.Sent)
	return out
}
