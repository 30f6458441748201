package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/set-night/healthconnect/internal/backend"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves the chat endpoints. Sessions listed in expired answer
// send-message with the 404 expiry signal.
type fakeBackend struct {
	mu      sync.Mutex
	expired map[string]bool
	reply   []string
	history map[string]string

	creates atomic.Int32
	sends   atomic.Int32
	sentTo  []string
}

func (f *fakeBackend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == backend.PathCreateChatSession:
			n := f.creates.Add(1)
			fmt.Fprintf(w, `{"data":"sess-%d"}`, n)

		case r.URL.Path == backend.PathSendMessage:
			f.sends.Add(1)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			f.mu.Lock()
			f.sentTo = append(f.sentTo, body["sessionId"])
			expired := f.expired[body["sessionId"]]
			f.mu.Unlock()

			if expired {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"Session expired or not found"}`))
				return
			}
			flusher := w.(http.Flusher)
			for _, chunk := range f.reply {
				w.Write([]byte(chunk))
				flusher.Flush()
			}

		case strings.HasPrefix(r.URL.Path, backend.PathChatHistory):
			id := strings.TrimPrefix(r.URL.Path, backend.PathChatHistory)
			if h, ok := f.history[id]; ok {
				fmt.Fprintf(w, `{"success":true,"data":%s}`, h)
				return
			}
			w.Write([]byte(`{"success":false}`))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newChatFixture(t *testing.T, fb *fakeBackend) (*ChatService, *repository.MemoryKV) {
	t.Helper()
	srv := httptest.NewServer(fb.handler(t))
	t.Cleanup(srv.Close)

	kv := repository.NewMemoryKV()
	svc := NewChatService(backend.NewClient(srv.URL, srv.URL), kv, NewTranscripts(time.Hour), &config.Config{StreamMarkerCarry: true})
	return svc, kv
}

func paidUser() *domain.User {
	return &domain.User{
		TelegramID:    42,
		Tier:          domain.TierLite,
		APIKey:        "key",
		SelectedModel: "gemini-2.0-flash",
		ChatMode:      domain.ModeChat,
	}
}

func TestSendMessageStream_ExpiredSessionRetriedOnce(t *testing.T) {
	fb := &fakeBackend{expired: map[string]bool{"stale": true}, reply: []string{"hello\n"}}
	svc, kv := newChatFixture(t, fb)
	ctx := context.Background()
	user := paidUser()

	store := svc.Sessions(user)
	require.NoError(t, store.Set(ctx, domain.ModeChat, "stale"))

	var expiredCalls int
	svc.OnSessionExpired(func(context.Context, *domain.User, domain.ChatMode) { expiredCalls++ })

	ls, err := svc.SendMessageStream(ctx, user, domain.ModeChat, "hi")
	require.NoError(t, err)
	text, err := ls.Drain()
	require.NoError(t, err)
	assert.Equal(t, "hello\n", text)

	assert.Equal(t, int32(1), fb.creates.Load())
	assert.Equal(t, int32(2), fb.sends.Load())
	assert.Equal(t, []string{"stale", "sess-1"}, fb.sentTo)
	assert.Equal(t, 1, expiredCalls)

	id, ok, err := kv.Get(ctx, "42:geminiChatSession")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sess-1", id)
}

func TestSendMessageStream_SecondExpiryIsTerminal(t *testing.T) {
	fb := &fakeBackend{expired: map[string]bool{"stale": true, "sess-1": true}}
	svc, _ := newChatFixture(t, fb)
	ctx := context.Background()
	user := paidUser()
	require.NoError(t, svc.Sessions(user).Set(ctx, domain.ModeChat, "stale"))

	_, err := svc.SendMessageStream(ctx, user, domain.ModeChat, "hi")
	require.ErrorIs(t, err, backend.ErrSessionExpired)
	assert.Equal(t, int32(1), fb.creates.Load())
	assert.Equal(t, int32(2), fb.sends.Load())

	id, err := svc.Sessions(user).Get(ctx, domain.ModeChat)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", id)
}

func TestOpen_CreationFailureLeavesKeyUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	kv := repository.NewMemoryKV()
	svc := NewChatService(backend.NewClient(srv.URL, srv.URL), kv, NewTranscripts(time.Hour), &config.Config{})

	_, err := svc.Open(context.Background(), paidUser(), domain.ModeChat)
	require.Error(t, err)

	_, ok, _ := kv.Get(context.Background(), "42:geminiChatSession")
	assert.False(t, ok)
}

func TestReply_ThinkingModel(t *testing.T) {
	fb := &fakeBackend{reply: []string{
		"THINKING PROCESS: check hydration\n",
		"RESPONSE_BEGINS_HEALTH_CONNECT: Drink water.\n",
		"Rest well.",
	}}
	svc, _ := newChatFixture(t, fb)
	user := paidUser()
	user.SelectedModel = "gemini-2.5-flash"

	var updates []domain.ChatMessage
	msg, err := svc.Reply(context.Background(), user, "I feel tired", func(m domain.ChatMessage) {
		updates = append(updates, m)
	})
	require.NoError(t, err)

	assert.False(t, msg.IsStreaming)
	assert.Equal(t, " Drink water.\nRest well.", msg.Text)
	require.Len(t, msg.Thinking, 1)
	assert.Equal(t, " check hydration\n", msg.Thinking[0])
	assert.Positive(t, msg.ThinkingTime)

	require.NotEmpty(t, updates)
	for _, u := range updates[:len(updates)-1] {
		assert.True(t, u.IsStreaming)
	}
	assert.False(t, updates[len(updates)-1].IsStreaming)

	msgs := svc.Transcript(user).Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, domain.ModeChat.Greeting(), msgs[0].Text)
	assert.Equal(t, "I feel tired", msgs[1].Text)
	assert.Equal(t, msg.ID, msgs[2].ID)
	assert.False(t, svc.Transcript(user).Streaming())
}

func TestReply_NonThinkingModelIgnoresMarkers(t *testing.T) {
	fb := &fakeBackend{reply: []string{"ANSWER: plain\n", "text"}}
	svc, _ := newChatFixture(t, fb)

	msg, err := svc.Reply(context.Background(), paidUser(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "ANSWER: plain\ntext", msg.Text)
	assert.Empty(t, msg.Thinking)
}

func TestReply_CannedWithoutAPIKey(t *testing.T) {
	fb := &fakeBackend{}
	svc, _ := newChatFixture(t, fb)
	user := paidUser()
	user.APIKey = ""

	msg, err := svc.Reply(context.Background(), user, "I have a headache", nil)
	require.NoError(t, err)
	assert.Equal(t, "Headaches can be caused by various factors such as stress, dehydration, lack of sleep, or eye strain. For occasional headaches, rest, hydration, and over-the-counter pain relievers may help. If you're experiencing severe or recurring headaches, it's best to consult a healthcare professional.", msg.Text)
	assert.False(t, msg.IsStreaming)
	assert.Zero(t, fb.creates.Load())
	assert.Zero(t, fb.sends.Load())
}

func TestReply_FreeTierGetsUpgradeText(t *testing.T) {
	fb := &fakeBackend{}
	svc, _ := newChatFixture(t, fb)
	user := paidUser()
	user.Tier = domain.TierFree

	msg, err := svc.Reply(context.Background(), user, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, UpgradeRequiredText, msg.Text)
	assert.Zero(t, fb.sends.Load())
}

func TestReply_PremiumModelNeedsPro(t *testing.T) {
	svc, _ := newChatFixture(t, &fakeBackend{})
	user := paidUser()
	user.SelectedModel = "gemini-2.0-pro-exp"

	_, err := svc.Reply(context.Background(), user, "hello", nil)
	assert.ErrorIs(t, err, domain.ErrPremiumModel)
	assert.Len(t, svc.Transcript(user).Messages(), 1)
}

func TestReply_BackendFailureUsesErrorText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == backend.PathCreateChatSession {
			w.Write([]byte(`{"data":"s"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	svc := NewChatService(backend.NewClient(srv.URL, srv.URL), repository.NewMemoryKV(), NewTranscripts(time.Hour), &config.Config{})

	msg, err := svc.Reply(context.Background(), paidUser(), "hello", nil)
	assert.True(t, backend.IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, ErrorReplyText, msg.Text)
	assert.False(t, msg.IsStreaming)
}

func TestCannedResponse(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"What should I EAT today?", cannedResponses[1].text},
		{"insomnia again", cannedResponses[2].text},
		{"best workout plan", cannedResponses[3].text},
		{"so much anxiety", cannedResponses[4].text},
		{"hello", defaultCannedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, CannedResponse(tt.query))
		})
	}
}

func TestSwitchMode(t *testing.T) {
	fb := &fakeBackend{history: map[string]string{
		"chat-1": `[{"role":"user","text":"hi"},{"role":"model","text":"hello there"}]`,
	}}
	svc, _ := newChatFixture(t, fb)
	ctx := context.Background()
	user := paidUser()

	t.Run("no session gives greeting", func(t *testing.T) {
		require.NoError(t, svc.SwitchMode(ctx, user, domain.ModeSymptomChecker))
		tr := svc.Transcript(user)
		assert.Equal(t, domain.ModeSymptomChecker, tr.Mode())
		msgs := tr.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, domain.ModeSymptomChecker.Greeting(), msgs[0].Text)
	})

	t.Run("stored session restores history", func(t *testing.T) {
		require.NoError(t, svc.Sessions(user).Set(ctx, domain.ModeChat, "chat-1"))
		require.NoError(t, svc.SwitchMode(ctx, user, domain.ModeChat))
		msgs := svc.Transcript(user).Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, "hi", msgs[0].Text)
		assert.Equal(t, domain.SenderUser, msgs[0].Sender)
		assert.Equal(t, "hello there", msgs[1].Text)
		assert.Equal(t, domain.SenderBot, msgs[1].Sender)
	})
}

func TestChangeModelAndClear(t *testing.T) {
	svc, kv := newChatFixture(t, &fakeBackend{})
	ctx := context.Background()
	user := paidUser()

	require.NoError(t, svc.Sessions(user).Set(ctx, domain.ModeChat, "old"))
	svc.Transcript(user).AddUser("something")

	_, err := svc.ChangeModel(ctx, user, "gemini-2.0-pro-exp")
	assert.ErrorIs(t, err, domain.ErrPremiumModel)
	_, ok, _ := kv.Get(ctx, "42:geminiChatSession")
	assert.True(t, ok)

	model, err := svc.ChangeModel(ctx, user, "gemini-2.5-flash")
	require.NoError(t, err)
	assert.True(t, model.Thinking)
	_, ok, _ = kv.Get(ctx, "42:geminiChatSession")
	assert.False(t, ok)
	assert.Len(t, svc.Transcript(user).Messages(), 1)

	_, err = svc.ChangeModel(ctx, user, "no-such-model")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestEphemeral(t *testing.T) {
	fb := &fakeBackend{reply: []string{"{\"a\":\n", "1}"}}
	svc, kv := newChatFixture(t, fb)

	out, err := svc.Ephemeral(context.Background(), "gemini-flash-latest", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":\n1}", out)

	_, ok, _ := kv.Get(context.Background(), "42:geminiChatSession")
	assert.False(t, ok)
}

func TestTranscriptsSweep(t *testing.T) {
	r := NewTranscripts(time.Minute)
	idle := r.Get(1, domain.ModeChat)
	busy := r.Get(2, domain.ModeChat)
	_, err := busy.BeginBot()
	require.NoError(t, err)

	assert.Same(t, idle, r.Get(1, domain.ModeSymptomChecker))
	assert.Equal(t, 1, r.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 1, r.Len())
}
