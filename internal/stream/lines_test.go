package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s *LineStream) []string {
	t.Helper()
	var out []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-s.C():
			if !ok {
				return out
			}
			out = append(out, f.Text)
		case <-timeout:
			t.Fatal("stream did not finish")
		}
	}
}

func TestLineStream_PartialWrites(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		pw.Write([]byte("Head"))
		pw.Write([]byte("aches are\ncom"))
		pw.Write([]byte("mon.\n\n   \nRest"))
		pw.Close()
	}()

	s := NewLineStream(context.Background(), pr)
	got := collect(t, s)

	assert.Equal(t, []string{"Headaches are\n", "common.\n", "Rest"}, got)
	require.NoError(t, s.Err())
}

func TestLineStream_Drain(t *testing.T) {
	s := NewLineStream(context.Background(), io.NopCloser(strings.NewReader("a\nb\n\nc")))

	text, err := s.Drain()
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", text)
}

func TestLineStream_ReadError(t *testing.T) {
	pr, pw := io.Pipe()
	boom := errors.New("connection reset")
	go func() {
		pw.Write([]byte("first\n"))
		pw.CloseWithError(boom)
	}()

	s := NewLineStream(context.Background(), pr)
	got := collect(t, s)

	assert.Equal(t, []string{"first\n"}, got)
	assert.ErrorIs(t, s.Err(), boom)
}

func TestLineStream_CloseAborts(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	s := NewLineStream(context.Background(), pr)
	go pw.Write([]byte("one\n"))

	f := <-s.C()
	assert.Equal(t, "one\n", f.Text)

	s.Close()
	_, ok := <-s.C()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), context.Canceled)
}

func TestLineStream_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewLineStream(ctx, pr)
	cancel()

	collect(t, s)
	assert.ErrorIs(t, s.Err(), context.Canceled)
}
