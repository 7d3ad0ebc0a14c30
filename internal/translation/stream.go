package translation

import (
	"context"
	"io"
	"sync"
)

// Stream is a lazy pull sequence of partial translations. Recv returns
// io.EOF once the sequence is exhausted; calling Recv again keeps returning
// io.EOF (the sequence is not restartable). Close stops the producer and is
// safe to call more than once.
type Stream struct {
	ch     chan Response
	cancel context.CancelFunc

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// newStream derives a producer context from ctx and hands the producer side
// to emit. The producer goroutine must call close when it is done.
func newStream(ctx context.Context, produce func(ctx context.Context, s *Stream)) *Stream {
	producerCtx, cancel := context.WithCancel(ctx)
	s := &Stream{
		ch:     make(chan Response),
		cancel: cancel,
	}
	go func() {
		defer cancel()
		defer close(s.ch)
		produce(producerCtx, s)
	}()
	return s
}

// Recv blocks until the next response is available. It returns io.EOF after
// the terminal response, or the producer's failure once the sequence ends
// early.
func (s *Stream) Recv() (*Response, error) {
	resp, ok := <-s.ch
	if !ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	return &resp, nil
}

// Close cancels production. Responses already delivered remain valid.
func (s *Stream) Close() error {
	s.closeOnce.Do(s.cancel)
	return nil
}

// emit delivers one response to the consumer. It returns false when the
// stream was cancelled, in which case the producer must stop.
func (s *Stream) emit(ctx context.Context, resp Response) bool {
	if err := ctx.Err(); err != nil {
		s.fail(err)
		return false
	}
	select {
	case <-ctx.Done():
		s.fail(ctx.Err())
		return false
	case s.ch <- resp:
		return true
	}
}

// fail records the error Recv reports after the channel closes. The first
// recorded error wins.
func (s *Stream) fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
