package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/healthconnect/internal/backend"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/stream"
)

// ChatService drives conversations with the backend chat endpoint and keeps
// each user's transcript and session ids.
type ChatService struct {
	client      *backend.Client
	kv          KeyValue
	transcripts *Transcripts
	carry       bool

	onExpired func(ctx context.Context, user *domain.User, mode domain.ChatMode)
}

func NewChatService(client *backend.Client, kv KeyValue, transcripts *Transcripts, cfg *config.Config) *ChatService {
	return &ChatService{
		client:      client,
		kv:          kv,
		transcripts: transcripts,
		carry:       cfg.StreamMarkerCarry,
	}
}

// OnSessionExpired registers a hook called when the backend reports an
// expired session, before it is recreated.
func (s *ChatService) OnSessionExpired(fn func(ctx context.Context, user *domain.User, mode domain.ChatMode)) {
	s.onExpired = fn
}

func (s *ChatService) Sessions(user *domain.User) *SessionStore {
	return NewSessionStore(s.kv, user.TelegramID)
}

// Transcript returns the user's conversation, starting it in the stored mode.
func (s *ChatService) Transcript(user *domain.User) *domain.Transcript {
	return s.transcripts.Get(user.TelegramID, user.ChatMode)
}

// Open returns the session id for mode, creating a backend session when none
// is stored. A failed creation leaves the key unset.
func (s *ChatService) Open(ctx context.Context, user *domain.User, mode domain.ChatMode) (string, error) {
	store := s.Sessions(user)
	id, err := store.Get(ctx, mode)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	id, err = s.client.CreateChatSession(ctx, user.SelectedModel, mode)
	if err != nil {
		return "", err
	}
	if err := store.Set(ctx, mode, id); err != nil {
		return "", err
	}
	slog.Info("chat session created", "user_id", user.TelegramID, "mode", mode, "model", user.SelectedModel)
	return id, nil
}

// SendMessageStream sends message on the mode's session. An expired session
// is cleared, recreated and the message resent once.
func (s *ChatService) SendMessageStream(ctx context.Context, user *domain.User, mode domain.ChatMode, message string) (*stream.LineStream, error) {
	id, err := s.Open(ctx, user, mode)
	if err != nil {
		return nil, err
	}

	ls, err := s.client.SendMessageStream(ctx, id, message)
	if !errors.Is(err, backend.ErrSessionExpired) {
		return ls, err
	}

	slog.Warn("chat session expired", "user_id", user.TelegramID, "mode", mode)
	if err := s.Sessions(user).Clear(ctx, mode); err != nil {
		return nil, err
	}
	if s.onExpired != nil {
		s.onExpired(ctx, user, mode)
	}

	id, err = s.Open(ctx, user, mode)
	if err != nil {
		return nil, fmt.Errorf("recreate session: %w", err)
	}
	ls, err = s.client.SendMessageStream(ctx, id, message)
	if err != nil {
		return nil, fmt.Errorf("resend after expiry: %w", err)
	}
	return ls, nil
}

// Reply appends text as a user message and answers it with one bot message.
// onUpdate receives the bot message after every change, including the last.
// The returned error is informational: the message always ends non-streaming.
func (s *ChatService) Reply(ctx context.Context, user *domain.User, text string, onUpdate func(domain.ChatMessage)) (domain.ChatMessage, error) {
	t := s.Transcript(user)
	mode := t.Mode()

	model, _ := domain.LookupModel(user.SelectedModel)
	if user.Tier.Paid() && model.Premium && user.Tier != domain.TierPro {
		return domain.ChatMessage{}, domain.ErrPremiumModel
	}
	if t.Streaming() {
		return domain.ChatMessage{}, domain.ErrReplyInProgress
	}

	t.AddUser(text)
	bot, err := t.BeginBot()
	if err != nil {
		return domain.ChatMessage{}, err
	}

	finish := func(body string, cause error) (domain.ChatMessage, error) {
		msg, err := t.FinishBot(bot.ID, body)
		if err != nil {
			return msg, err
		}
		notify(onUpdate, msg)
		return msg, cause
	}

	switch {
	case !user.Tier.Paid():
		return finish(UpgradeRequiredText, nil)
	case !user.HasAPIKey():
		return finish(CannedResponse(text), nil)
	}

	ctx, cancel := context.WithTimeout(ctx, config.StreamTimeout)
	defer cancel()

	start := time.Now()
	ls, err := s.SendMessageStream(ctx, user, mode, text)
	if err != nil {
		return finish(ErrorReplyText, err)
	}
	defer ls.Close()

	opts := []stream.Option{}
	if s.carry {
		opts = append(opts, stream.WithBoundaryCarry())
	}
	splitter := stream.NewSplitter(model.Thinking, opts...)

	publish := func(snap stream.Snapshot) {
		msg, err := t.UpdateBot(bot.ID, snap.Answer, snap.Thinking, time.Since(start))
		if err == nil {
			notify(onUpdate, msg)
		}
	}

	for frag := range ls.C() {
		publish(splitter.Write(frag.Text))
	}
	if err := ls.Err(); err != nil {
		return finish(ErrorReplyText, fmt.Errorf("read reply stream: %w", err))
	}
	publish(splitter.Flush())
	return finish("", nil)
}

func notify(fn func(domain.ChatMessage), msg domain.ChatMessage) {
	if fn != nil {
		fn(msg)
	}
}

// SwitchMode makes mode current. A stored session for mode brings its history
// back verbatim; otherwise the transcript starts over with the mode greeting.
func (s *ChatService) SwitchMode(ctx context.Context, user *domain.User, mode domain.ChatMode) error {
	t := s.Transcript(user)
	if t.Streaming() {
		return domain.ErrReplyInProgress
	}

	id, err := s.Sessions(user).Get(ctx, mode)
	if err != nil {
		return err
	}
	if id == "" {
		t.Reset(mode)
		return nil
	}

	history, err := s.client.ChatHistory(ctx, id)
	if err != nil {
		slog.Warn("load chat history", "error", err, "user_id", user.TelegramID, "mode", mode)
		t.Reset(mode)
		return nil
	}
	if len(history) == 0 {
		t.Reset(mode)
		return nil
	}

	msgs := make([]domain.ChatMessage, 0, len(history))
	for _, h := range history {
		sender := domain.SenderBot
		if h.Role == "user" {
			sender = domain.SenderUser
		}
		msgs = append(msgs, domain.ChatMessage{ID: uuid.NewString(), Text: h.Text, Sender: sender})
	}
	t.Restore(mode, msgs)
	return nil
}

// ChangeModel validates model for the user and drops the current mode's
// session so the next message opens one on the new model.
func (s *ChatService) ChangeModel(ctx context.Context, user *domain.User, modelID string) (domain.AIModel, error) {
	model, ok := domain.LookupModel(modelID)
	if !ok {
		return domain.AIModel{}, domain.ErrModelNotFound
	}
	if model.Premium && user.Tier != domain.TierPro {
		return domain.AIModel{}, domain.ErrPremiumModel
	}
	if err := s.Clear(ctx, user); err != nil {
		return domain.AIModel{}, err
	}
	return model, nil
}

// Clear forgets the current mode's session and resets the transcript.
func (s *ChatService) Clear(ctx context.Context, user *domain.User) error {
	t := s.Transcript(user)
	if t.Streaming() {
		return domain.ErrReplyInProgress
	}
	mode := t.Mode()
	if err := s.Sessions(user).Clear(ctx, mode); err != nil {
		return err
	}
	t.Reset(mode)
	return nil
}

// Ephemeral runs prompt on a throwaway session and returns the whole reply.
func (s *ChatService) Ephemeral(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.StreamTimeout)
	defer cancel()

	id, err := s.client.CreateChatSession(ctx, model, domain.ModeChat)
	if err != nil {
		return "", err
	}
	ls, err := s.client.SendMessageStream(ctx, id, prompt)
	if err != nil {
		return "", err
	}
	defer ls.Close()
	return ls.Drain()
}
