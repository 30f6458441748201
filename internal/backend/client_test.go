package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/set-night/healthconnect/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL+"/api")
}

func TestCreateChatSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, PathCreateChatSession, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gemini-flash-latest", body["modelType"])
		assert.Equal(t, "symptom-checker", body["mode"])
		w.Write([]byte(`{"data":"sess-1"}`))
	})

	id, err := c.CreateChatSession(context.Background(), "gemini-flash-latest", domain.ModeSymptomChecker)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id)
}

func TestCreateChatSession_MissingData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})

	_, err := c.CreateChatSession(context.Background(), "m", domain.ModeChat)
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestCreateChatSession_Transport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, srv.URL).CreateChatSession(context.Background(), "m", domain.ModeChat)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSendMessageStream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sess-1", body["sessionId"])
		assert.Equal(t, "hello", body["message"])

		flusher := w.(http.Flusher)
		w.Write([]byte("THINKING PROCESS: hm\n"))
		flusher.Flush()
		w.Write([]byte("RESPONSE_BEGINS_HEALTH_CONNECT: drink"))
		flusher.Flush()
		w.Write([]byte(" water"))
	})

	ls, err := c.SendMessageStream(context.Background(), "sess-1", "hello")
	require.NoError(t, err)

	text, err := ls.Drain()
	require.NoError(t, err)
	assert.Equal(t, "THINKING PROCESS: hm\nRESPONSE_BEGINS_HEALTH_CONNECT: drink water", text)
}

func TestSendMessageStream_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		status2 int
	}{
		{name: "expired", status: http.StatusNotFound, body: `{"error":"Session expired or not found"}`, wantErr: ErrSessionExpired},
		{name: "plain 404", status: http.StatusNotFound, body: `{"error":"no such route"}`, status2: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: `boom`, status2: http.StatusInternalServerError},
		{name: "empty body", status: http.StatusOK, wantErr: ErrNoResponseBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			ls, err := c.SendMessageStream(context.Background(), "sess", "hi")
			require.Error(t, err)
			assert.Nil(t, ls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.status2 != 0 {
				assert.True(t, IsStatus(err, tt.status2), "got %v", err)
				assert.NotErrorIs(t, err, ErrSessionExpired)
			}
		})
	}
}

func TestChatHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathChatHistory + "abc":
			w.Write([]byte(`{"success":true,"data":[{"role":"user","text":"hi"},{"role":"model","text":"hello"}]}`))
		default:
			w.Write([]byte(`{"success":false}`))
		}
	})

	history, err := c.ChatHistory(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []HistoryMessage{{Role: "user", Text: "hi"}, {Role: "model", Text: "hello"}}, history)

	history, err = c.ChatHistory(context.Background(), "other")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPostData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathHealthInsights:
			w.Write([]byte(`{"data":"Here: [{\"title\":\"x\"}]"}`))
		case PathHealthReport:
			w.Write([]byte(`{"data":["not","a","string"]}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})
	ctx := context.Background()

	text, err := c.PostData(ctx, PathHealthInsights, map[string]int{"age": 30})
	require.NoError(t, err)
	assert.Equal(t, `Here: [{"title":"x"}]`, text)

	_, err = c.PostData(ctx, PathHealthReport, nil)
	assert.ErrorIs(t, err, ErrMissingData)

	_, err = c.PostData(ctx, PathWorkoutAnalysis, nil)
	assert.True(t, IsStatus(err, http.StatusBadGateway))
}

func TestEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == PathAnalyzeWellness {
			w.Write([]byte(`{"success":true,"data":{"analysis":"Calm day","date":"2026-10-19","timestamp":1760832000}}`))
			return
		}
		w.Write([]byte(`{"success":false,"message":"nope"}`))
	})
	ctx := context.Background()

	var out domain.WellnessAnalysis
	require.NoError(t, c.PostEnvelope(ctx, PathAnalyzeWellness, map[string]string{"entry": "ok"}, &out))
	assert.Equal(t, "Calm day", out.Analysis)
	assert.Equal(t, int64(1760832000), out.Timestamp)

	assert.ErrorIs(t, c.PostEnvelope(ctx, PathSaveHistory, nil, &out), ErrMissingData)
}

func TestDoctors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api" + PathAllDoctors:
			w.Write([]byte(`{"allDoctor":[{"_id":"d1","name":"Dr. Lee","specialty":"Endocrinologist","rating":4.8,"experience":9}]}`))
		case "/api" + PathDoctorRecommendation:
			w.Write([]byte(`{"data":["d1",7,"d2"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	docs, err := c.AllDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "d1", docs[0].ID)
	assert.Equal(t, 4.8, docs[0].Rating)

	ids, err := c.DoctorRecommendations(ctx, domain.HealthSnapshot{Age: 40})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, ids)
}
