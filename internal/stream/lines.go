package stream

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// Fragment is one line of streamed model output.
type Fragment struct {
	Text string
}

// LineStream reads a newline-delimited body in a background goroutine and
// delivers non-blank lines in arrival order. The partial line pending at EOF is
// delivered last. A LineStream is single-pass and cannot be restarted.
type LineStream struct {
	ch     chan Fragment
	body   io.ReadCloser
	cancel context.CancelFunc
	done   chan struct{}
	err    error
	once   sync.Once
}

// NewLineStream starts reading body. Cancelling ctx or calling Close stops the
// producer and closes body.
func NewLineStream(ctx context.Context, body io.ReadCloser) *LineStream {
	ctx, cancel := context.WithCancel(ctx)
	s := &LineStream{
		ch:     make(chan Fragment),
		body:   body,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

// C returns the fragment channel. It is closed when the body is exhausted,
// fails, or the stream is closed.
func (s *LineStream) C() <-chan Fragment {
	return s.ch
}

// Err blocks until the producer has exited and returns the read error, if any.
// A cleanly exhausted body yields nil.
func (s *LineStream) Err() error {
	<-s.done
	return s.err
}

// Close aborts the stream and waits for the producer to exit.
func (s *LineStream) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Drain reads every remaining fragment and returns their concatenation.
func (s *LineStream) Drain() (string, error) {
	var sb strings.Builder
	for f := range s.ch {
		sb.WriteString(f.Text)
	}
	return sb.String(), s.Err()
}

func (s *LineStream) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.ch)
	defer s.body.Close()

	// Closing the body unblocks a pending Read when the stream is aborted.
	stop := context.AfterFunc(ctx, func() {
		s.body.Close()
	})
	defer stop()

	reader := bufio.NewReader(s.body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.emit(ctx, line)
				return
			}
			if ctx.Err() != nil {
				s.err = ctx.Err()
			} else {
				s.err = err
			}
			return
		}
		if !s.emit(ctx, line) {
			return
		}
	}
}

func (s *LineStream) emit(ctx context.Context, line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	select {
	case s.ch <- Fragment{Text: line}:
		return true
	case <-ctx.Done():
		s.err = ctx.Err()
		return false
	}
}
