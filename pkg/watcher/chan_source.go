package watcher

import "sync"

// ChanSource is a Source fed by Send. It backs programmatic notifications,
// such as an editor integration forwarding its own change events.
type ChanSource struct {
	mu      sync.Mutex
	batches chan Batch
	closed  bool
}

// NewChanSource creates a source buffering up to size batches
func NewChanSource(size int) *ChanSource {
	if size <= 0 {
		size = 1
	}
	return &ChanSource{batches: make(chan Batch, size)}
}

// Send queues a batch. It returns false when the source is closed or full.
func (s *ChanSource) Send(batch Batch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.batches <- batch:
		return true
	default:
		return false
	}
}

// Batches implements Source
func (s *ChanSource) Batches() <-chan Batch {
	return s.batches
}

// Close implements Source
func (s *ChanSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.batches)
	}
	return nil
}
