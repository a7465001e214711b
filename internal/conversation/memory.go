package conversation

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"
)

// MemoryRepository is an in-memory Repository for development and tests.
type MemoryRepository struct {
	mu        sync.Mutex
	histories map[string]*History
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		histories: make(map[string]*History),
	}
}

func (m *MemoryRepository) Load(ctx context.Context, userID string) (*History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.histories[userID]
	if !ok {
		return &History{Messages: []*schema.Message{}}, nil
	}

	// Copy so callers cannot mutate the stored history without Save.
	messages := make([]*schema.Message, len(stored.Messages))
	copy(messages, stored.Messages)
	return &History{Messages: messages}, nil
}

func (m *MemoryRepository) Save(ctx context.Context, userID string, history *History) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages := make([]*schema.Message, len(history.Messages))
	copy(messages, history.Messages)
	m.histories[userID] = &History{Messages: messages}
	return nil
}
