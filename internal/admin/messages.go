package admin

import (
	"context"
	"sync"

	"github.com/vbonduro/portfolio/internal/domain"
)

type messagesAPI interface {
	Messages(ctx context.Context, token string) ([]domain.ContactMessage, error)
}

// MessageList is the read-only contact message tab. Messages are listed in
// the order the API returns them.
type MessageList struct {
	mu    sync.Mutex
	api   messagesAPI
	gen   uint64
	state State
	rows  []domain.ContactMessage
	err   string
}

func NewMessageList(api messagesAPI) *MessageList {
	return &MessageList{api: api, state: StateIdle}
}

func (m *MessageList) Load(ctx context.Context, token string) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.state = StateLoading
	m.err = ""
	m.mu.Unlock()

	rows, err := m.api.Messages(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen || ctx.Err() != nil {
		return
	}
	if err != nil {
		m.state = StateFailed
		m.err = err.Error()
		return
	}
	m.rows = rows
	m.state = StateLoaded
}

func (m *MessageList) Rows() []domain.ContactMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ContactMessage(nil), m.rows...)
}

func (m *MessageList) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MessageList) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
