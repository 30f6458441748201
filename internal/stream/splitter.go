// Package stream turns the backend's chat byte stream into text fragments and
// splits model output into "thinking" and "answer" text.
package stream

import "strings"

// Sentinel markers emitted by thinking-capable models.
const (
	MarkerThinking = "THINKING PROCESS:"
	MarkerResponse = "RESPONSE_BEGINS_HEALTH_CONNECT:"
	MarkerAnswer   = "ANSWER:"
)

var markers = []string{MarkerThinking, MarkerResponse, MarkerAnswer}

// Snapshot is the accumulated state after a chunk has been classified.
type Snapshot struct {
	Thinking string
	Answer   string
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithBoundaryCarry holds back a chunk tail that could be the beginning of a
// marker and retries it together with the next chunk, so markers split across
// chunk boundaries are still detected. The held tail is released by Flush.
func WithBoundaryCarry() Option {
	return func(s *Splitter) {
		s.carry = true
	}
}

// Splitter classifies streamed text into thinking and answer buffers.
// Marker matching is a plain substring search per chunk.
type Splitter struct {
	thinkingModel bool
	carry         bool

	collecting bool
	pending    string
	thinking   strings.Builder
	answer     strings.Builder
}

// NewSplitter creates a splitter. When thinkingModel is false every chunk is
// appended to the answer and markers are ignored.
func NewSplitter(thinkingModel bool, opts ...Option) *Splitter {
	s := &Splitter{thinkingModel: thinkingModel}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write classifies one chunk and returns the current state.
func (s *Splitter) Write(chunk string) Snapshot {
	if !s.thinkingModel {
		s.answer.WriteString(chunk)
		return s.Snapshot()
	}

	if s.carry {
		chunk = s.pending + chunk
		hold := partialMarkerSuffix(chunk)
		s.pending = chunk[len(chunk)-hold:]
		chunk = chunk[:len(chunk)-hold]
	}

	s.classify(chunk)
	return s.Snapshot()
}

// Flush releases any text held back for boundary detection. It must be called
// once the stream is exhausted.
func (s *Splitter) Flush() Snapshot {
	if s.pending != "" {
		tail := s.pending
		s.pending = ""
		s.classify(tail)
	}
	return s.Snapshot()
}

// Snapshot returns the accumulated buffers without consuming input.
func (s *Splitter) Snapshot() Snapshot {
	return Snapshot{
		Thinking: s.thinking.String(),
		Answer:   s.answer.String(),
	}
}

// Collecting reports whether the splitter is inside a thinking section.
func (s *Splitter) Collecting() bool {
	return s.collecting
}

func (s *Splitter) classify(chunk string) {
	// Text in front of THINKING PROCESS: in the same chunk is dropped.
	if _, rest, ok := strings.Cut(chunk, MarkerThinking); ok {
		s.collecting = true
		if thought, answer, found := strings.Cut(rest, MarkerResponse); found {
			s.thinking.WriteString(thought)
			s.answer.WriteString(answer)
			s.collecting = false
			return
		}
		s.thinking.WriteString(rest)
		return
	}

	marker := ""
	switch {
	case strings.Contains(chunk, MarkerResponse):
		marker = MarkerResponse
	case strings.Contains(chunk, MarkerAnswer):
		marker = MarkerAnswer
	}
	if marker != "" {
		s.collecting = false
		before, after, _ := strings.Cut(chunk, marker)
		s.thinking.WriteString(before)
		s.answer.WriteString(after)
		return
	}

	if s.collecting {
		s.thinking.WriteString(chunk)
	} else {
		s.answer.WriteString(chunk)
	}
}

// partialMarkerSuffix returns the length of the longest suffix of text that is
// a proper prefix of some marker. Markers are ASCII, so the cut never lands
// inside a multi-byte rune.
func partialMarkerSuffix(text string) int {
	longest := 0
	for _, m := range markers {
		if len(m) > longest {
			longest = len(m)
		}
	}

	n := longest - 1
	if n > len(text) {
		n = len(text)
	}
	for ; n > 0; n-- {
		suffix := text[len(text)-n:]
		for _, m := range markers {
			if len(suffix) < len(m) && strings.HasPrefix(m, suffix) {
				return n
			}
		}
	}
	return 0
}
