package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/set-night/healthconnect/internal/domain"
)

// Transcripts keeps one visible conversation per Telegram user.
type Transcripts struct {
	mu    sync.Mutex
	items map[int64]*domain.Transcript
	idle  time.Duration
}

func NewTranscripts(idle time.Duration) *Transcripts {
	return &Transcripts{items: make(map[int64]*domain.Transcript), idle: idle}
}

// Get returns the user's transcript, starting one in mode if absent.
func (r *Transcripts) Get(telegramID int64, mode domain.ChatMode) *domain.Transcript {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[telegramID]
	if !ok {
		t = domain.NewTranscript(mode)
		r.items[telegramID] = t
	}
	return t
}

func (r *Transcripts) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep drops transcripts idle since before now-idle. Streaming ones stay.
func (r *Transcripts) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, t := range r.items {
		if t.Streaming() || now.Sub(t.LastActivity()) < r.idle {
			continue
		}
		delete(r.items, id)
		removed++
	}
	return removed
}

// Run sweeps every period until ctx is done.
func (r *Transcripts) Run(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				slog.Debug("idle transcripts evicted", "count", n)
			}
		}
	}
}
