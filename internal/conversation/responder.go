package conversation

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"donna/internal/llm"
	"donna/internal/logger"
)

// ApologyMessage is the fixed reply when the model call fails mid-exchange.
const ApologyMessage = "Sorry, I'm having trouble responding right now. Please try again in a moment."

// Responder handles free-form chat: it keeps the per-user history, sends it
// to the model with the persona system turn, and persists both sides of each
// exchange. The inbound user turn is persisted before the model call so a
// failed exchange keeps its context for the retry.
type Responder struct {
	repo        Repository
	llm         llm.Completer
	persona     string
	maxTurns    int
	temperature float32
	locks       keyedMutex
}

func NewResponder(repo Repository, completer llm.Completer, persona string, maxTurns int, temperature float32) *Responder {
	return &Responder{
		repo:        repo,
		llm:         completer,
		persona:     persona,
		maxTurns:    maxTurns,
		temperature: temperature,
	}
}

// Reply runs one exchange and always returns a user-facing string.
func (r *Responder) Reply(ctx context.Context, userID, text string) string {
	unlock := r.locks.lock(userID)
	defer unlock()

	history, err := r.repo.Load(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Str("user", userID).Msg("failed to load conversation history")
		return ApologyMessage
	}

	if len(history.Messages) == 0 {
		history.Messages = append(history.Messages, schema.SystemMessage(r.persona))
	}
	history.Messages = append(history.Messages, schema.UserMessage(text))

	// Persist the user turn first; it must survive a failed model call.
	if err := r.repo.Save(ctx, userID, history); err != nil {
		logger.Error().Err(err).Str("user", userID).Msg("failed to persist conversation history")
		return ApologyMessage
	}

	reply, err := r.llm.Complete(ctx, window(history.Messages, r.maxTurns), r.temperature)
	if err != nil {
		logger.Error().Err(err).Str("user", userID).Msg("chat completion failed")
		return ApologyMessage
	}

	history.Messages = append(history.Messages, schema.AssistantMessage(reply, nil))
	if err := r.repo.Save(ctx, userID, history); err != nil {
		// The reply was produced; losing the assistant turn is log-worthy
		// but not user-facing.
		logger.Error().Err(err).Str("user", userID).Msg("failed to persist assistant turn")
	}

	return reply
}

// window keeps the system turn plus the most recent maxTurns turns so the
// model context stays bounded while the persisted history keeps everything.
func window(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		return messages
	}

	recent := messages[len(messages)-maxTurns:]
	if len(messages) > 0 && messages[0].Role == schema.System && recent[0].Role != schema.System {
		windowed := make([]*schema.Message, 0, len(recent)+1)
		windowed = append(windowed, messages[0])
		windowed = append(windowed, recent...)
		return windowed
	}
	return recent
}

// keyedMutex serializes same-user exchanges; different users never contend.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
