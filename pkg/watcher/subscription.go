package watcher

import (
	"sync"

	"github.com/arthur-debert/brandsync/pkg/logging"
	"github.com/rs/zerolog"
)

// Subscription consumes a Source on a dedicated goroutine
type Subscription struct {
	source   Source
	prefix   string
	onChange func(Batch)
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
	logger   zerolog.Logger
}

// Subscribe starts consuming source. onChange is called, on the subscription
// goroutine, for every batch with at least one root related event.
func Subscribe(source Source, prefix string, onChange func(Batch)) *Subscription {
	s := &Subscription{
		source:   source,
		prefix:   prefix,
		onChange: onChange,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logging.GetLogger("watcher.subscription"),
	}
	go s.run()
	return s
}

func (s *Subscription) run() {
	defer close(s.done)
	batches := s.source.Batches()
	for {
		select {
		case <-s.stop:
			return
		case batch, ok := <-batches:
			if !ok {
				return
			}
			if !Relevant(batch, s.prefix) {
				s.logger.Trace().Int("events", len(batch)).Msg("Ignoring unrelated batch")
				continue
			}
			s.logger.Debug().Int("events", len(batch)).Msg("Root related change")
			s.onChange(batch)
		}
	}
}

// Stop closes the source and waits for the goroutine to exit
func (s *Subscription) Stop() error {
	var err error
	s.once.Do(func() {
		close(s.stop)
		err = s.source.Close()
		<-s.done
	})
	return err
}

// Done is closed when the subscription goroutine has exited
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
