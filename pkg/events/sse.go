package events

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Flusher is the subset of http.Flusher the SSE sink needs; keeping it
// local lets tests drive the sink with a plain buffer.
type Flusher interface {
	Flush()
}

// SSESink writes each event as a server-sent-events frame and flushes
// immediately, so a live client sees partial progress before the turn
// completes.
type SSESink struct {
	mu      sync.Mutex
	w       io.Writer
	flusher Flusher
}

func NewSSESink(w io.Writer, flusher Flusher) *SSESink {
	return &SSESink{w: w, flusher: flusher}
}

func (s *SSESink) PublishEvent(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal stream event")
	}
	if _, err := s.w.Write([]byte("event: " + string(ev.Type()) + "\n")); err != nil {
		return err
	}
	if _, err := s.w.Write(append(append([]byte("data: "), b...), '\n', '\n')); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

var _ Sink = (*SSESink)(nil)

// NDJSONSink writes one JSON object per line, the non-SSE stream format.
type NDJSONSink struct {
	mu      sync.Mutex
	w       io.Writer
	flusher Flusher
}

func NewNDJSONSink(w io.Writer, flusher Flusher) *NDJSONSink {
	return &NDJSONSink{w: w, flusher: flusher}
}

func (s *NDJSONSink) PublishEvent(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal stream event")
	}
	if _, err := s.w.Write(append(b, '\n')); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

var _ Sink = (*NDJSONSink)(nil)
