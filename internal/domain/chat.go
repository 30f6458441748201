package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type ChatMode string

const (
	ModeChat           ChatMode = "chat"
	ModeSymptomChecker ChatMode = "symptom-checker"
)

func ParseChatMode(s string) (ChatMode, bool) {
	switch ChatMode(s) {
	case ModeChat, ModeSymptomChecker:
		return ChatMode(s), true
	}
	return "", false
}

// SessionKey is the store key holding the backend session id for the mode.
func (m ChatMode) SessionKey() string {
	if m == ModeSymptomChecker {
		return "geminiSymptomCheckerSession"
	}
	return "geminiChatSession"
}

func (m ChatMode) Greeting() string {
	if m == ModeSymptomChecker {
		return "Hello. I am the Symptom Checker. Please describe your main symptom."
	}
	return "Hi there! How can I help with your health questions today?"
}

func (m ChatMode) Title() string {
	if m == ModeSymptomChecker {
		return "Symptom Checker"
	}
	return "General Chat"
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage is one transcript entry. A bot message is mutable only while
// IsStreaming is true.
type ChatMessage struct {
	ID           string
	Text         string
	Sender       Sender
	Thinking     []string
	ThinkingTime time.Duration
	IsStreaming  bool
}

// Transcript is the visible conversation for one user. At most one bot message
// streams at a time. Methods are safe for concurrent use.
type Transcript struct {
	mu           sync.Mutex
	mode         ChatMode
	messages     []ChatMessage
	lastActivity time.Time
}

func NewTranscript(mode ChatMode) *Transcript {
	t := &Transcript{}
	t.Reset(mode)
	return t
}

// Reset replaces the conversation with the mode greeting.
func (t *Transcript) Reset(mode ChatMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = mode
	t.messages = []ChatMessage{{ID: uuid.NewString(), Text: mode.Greeting(), Sender: SenderBot}}
	t.lastActivity = time.Now()
}

// Restore replaces the conversation with history loaded from the backend.
func (t *Transcript) Restore(mode ChatMode, history []ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = mode
	t.messages = make([]ChatMessage, len(history))
	copy(t.messages, history)
	t.lastActivity = time.Now()
}

func (t *Transcript) Mode() ChatMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

func (t *Transcript) AddUser(text string) ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg := ChatMessage{ID: uuid.NewString(), Text: text, Sender: SenderUser}
	t.messages = append(t.messages, msg)
	t.lastActivity = time.Now()
	return msg
}

// BeginBot appends an empty streaming bot message.
func (t *Transcript) BeginBot() (ChatMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.streamingIndex() >= 0 {
		return ChatMessage{}, ErrReplyInProgress
	}
	msg := ChatMessage{ID: uuid.NewString(), Sender: SenderBot, IsStreaming: true}
	t.messages = append(t.messages, msg)
	t.lastActivity = time.Now()
	return msg, nil
}

// UpdateBot publishes the current answer and thinking text of a streaming
// message. A zero elapsed leaves ThinkingTime untouched.
func (t *Transcript) UpdateBot(id, answer, thinking string, elapsed time.Duration) (ChatMessage, error) {
	return t.mutate(id, func(m *ChatMessage) {
		m.Text = answer
		if thinking != "" {
			m.Thinking = []string{thinking}
		} else {
			m.Thinking = nil
		}
		if elapsed > 0 {
			m.ThinkingTime = elapsed
		}
	})
}

// FinishBot marks a streaming message final. A non-empty text replaces the body.
func (t *Transcript) FinishBot(id, text string) (ChatMessage, error) {
	return t.mutate(id, func(m *ChatMessage) {
		if text != "" {
			m.Text = text
		}
		m.IsStreaming = false
	})
}

func (t *Transcript) Streaming() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.streamingIndex() >= 0
}

// Messages returns a copy of the conversation.
func (t *Transcript) Messages() []ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastActivity
}

func (t *Transcript) mutate(id string, fn func(*ChatMessage)) (ChatMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.messages {
		if t.messages[i].ID != id {
			continue
		}
		if !t.messages[i].IsStreaming {
			return t.messages[i], ErrMessageFinished
		}
		fn(&t.messages[i])
		t.lastActivity = time.Now()
		return t.messages[i], nil
	}
	return ChatMessage{}, ErrMessageNotFound
}

func (t *Transcript) streamingIndex() int {
	for i := range t.messages {
		if t.messages[i].IsStreaming {
			return i
		}
	}
	return -1
}
