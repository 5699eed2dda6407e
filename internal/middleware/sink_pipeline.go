package middleware

import (
	"context"
	"sync"
	"time"

	"SentinelFeed/internal/domain/models"
	domrepo "SentinelFeed/internal/domain/repository"
	applogger "SentinelFeed/pkg/logger"
	"SentinelFeed/pkg/metrics"
)

// SinkPipeline sits between the feed controller and the sinks. Dispatch never
// blocks: events are queued on a bounded buffer and a single worker hands each
// one to every sink in order. When the buffer is full the event is dropped.
type SinkPipeline struct {
	sinks   []domrepo.FeedSink
	metrics domrepo.Metrics
	logger  *applogger.Logger
	bufSize int
	timeout time.Duration
	bufCh   chan models.FeedEvent
	stopCh  chan struct{}
	done    chan struct{}
	started bool
	stopped bool
	mu      sync.Mutex
}

type PipelineOption func(*SinkPipeline)

// WithBufferSize sets how many events may wait for the worker.
func WithBufferSize(n int) PipelineOption {
	return func(p *SinkPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithSinkTimeout bounds a single sink call.
func WithSinkTimeout(d time.Duration) PipelineOption {
	return func(p *SinkPipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithPipelineLogger(l *applogger.Logger) PipelineOption {
	return func(p *SinkPipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewSinkPipeline creates a pipeline over sinks. Nil sinks are skipped.
func NewSinkPipeline(sinks []domrepo.FeedSink, m domrepo.Metrics, opts ...PipelineOption) *SinkPipeline {
	if m == nil {
		m = metrics.Nop{}
	}
	p := &SinkPipeline{
		metrics: m,
		logger:  applogger.Nop(),
		bufSize: 256,
		timeout: 5 * time.Second,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, s := range sinks {
		if s != nil {
			p.sinks = append(p.sinks, s)
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan models.FeedEvent, p.bufSize)
	return p
}

// Sinks returns the names of the attached sinks.
func (p *SinkPipeline) Sinks() []string {
	names := make([]string, 0, len(p.sinks))
	for _, s := range p.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Start launches the worker. Calling it more than once is a no-op.
func (p *SinkPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		defer close(p.done)
		for {
			select {
			case <-p.stopCh:
				p.drain(ctx)
				return
			case ev := <-p.bufCh:
				p.deliver(ctx, ev)
			}
		}
	}()
}

// Dispatch queues ev for the sinks. It reports false when the event was dropped.
func (p *SinkPipeline) Dispatch(ev models.FeedEvent) bool {
	if len(p.sinks) == 0 {
		return true
	}
	select {
	case p.bufCh <- ev:
		return true
	default:
		p.metrics.RecordError("sink_buffer_full")
		return false
	}
}

// Stop flushes whatever is queued, waits for the worker and closes the sinks.
func (p *SinkPipeline) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	close(p.stopCh)
	if started {
		<-p.done
	}
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			p.logger.Warn("sink close failed", applogger.String("sink", s.Name()), applogger.Error(err))
		}
	}
}

func (p *SinkPipeline) drain(ctx context.Context) {
	for {
		select {
		case ev := <-p.bufCh:
			p.deliver(context.WithoutCancel(ctx), ev)
		default:
			return
		}
	}
}

func (p *SinkPipeline) deliver(ctx context.Context, ev models.FeedEvent) {
	for _, s := range p.sinks {
		cctx, cancel := context.WithTimeout(ctx, p.timeout)
		err := s.Consume(cctx, ev)
		cancel()
		p.metrics.RecordSink(s.Name(), err)
		if err != nil {
			p.logger.Warn("sink consume failed",
				applogger.String("sink", s.Name()),
				applogger.Int64("version", int64(ev.Snapshot.Version)),
				applogger.Error(err))
		}
	}
}
